package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/prgate/internal/adapter/driven/fsys"
	"github.com/ericfisherdev/prgate/internal/application"
)

func (a *App) planCommentCommand() *cli.Command {
	return &cli.Command{
		Name:  "plan-comment",
		Usage: "classify a Terraform plan and sync the PR's plan comment",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "plan-file",
				Usage:    "path to the captured terraform plan output",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "pr",
				Usage: "pull request number (overrides PRGATE_PR_NUMBER)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			planPath := cmd.String("plan-file")

			data, err := fsys.NewReader().ReadFile(planPath)
			if err != nil {
				return fmt.Errorf("reading plan file %s: %w", planPath, err)
			}
			planText := string(data)

			classification := application.ClassifyPlan(planText, a.cfg.CollapseAttrs)
			a.logger.Info("plan classified",
				"should_collapse", classification.ShouldCollapse,
				"only_updates", classification.HasOnlyUpdates,
				"changed_attrs", classification.ChangedAttrs,
				"resource_changes", classification.HasResourceChanges,
			)

			comments := application.NewCommentService(a.githubClient())
			return comments.Sync(ctx, a.cfg.Repo, a.prNumber(cmd), a.cfg.Marker, planText, classification)
		},
	}
}
