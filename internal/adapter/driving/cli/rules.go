package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/prgate/internal/rules"
)

func (a *App) rulesCommand() *cli.Command {
	return &cli.Command{
		Name:  "rules",
		Usage: "validate the policy markdown documents, optionally rendering them to HTML",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "directory holding the policy documents",
				Value: "docs/rules",
			},
			&cli.StringFlag{
				Name:  "render",
				Usage: "write sanitized HTML for each document into this directory",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dir := cmd.String("dir")

			docs, err := rules.CheckAll(os.DirFS("."), dir)
			if err != nil {
				return fmt.Errorf("rules check failed: %w", err)
			}

			for _, doc := range docs {
				a.logger.Info("rule document ok", "path", doc.Path, "title", doc.Title)
			}

			outDir := cmd.String("render")
			if outDir == "" {
				return nil
			}

			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("creating render dir: %w", err)
			}

			for _, doc := range docs {
				name := strings.TrimSuffix(filepath.Base(doc.Path), ".md") + ".html"
				out := filepath.Join(outDir, name)
				if err := os.WriteFile(out, []byte(doc.HTML), 0o644); err != nil {
					return fmt.Errorf("writing %s: %w", out, err)
				}
			}

			return nil
		},
	}
}
