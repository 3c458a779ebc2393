// Package cli wires the prgate subcommands to the application services.
package cli

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	githubadapter "github.com/ericfisherdev/prgate/internal/adapter/driven/github"
	"github.com/ericfisherdev/prgate/internal/config"
)

// App bundles the configuration shared by every subcommand.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewApp creates the prgate command tree.
func NewApp(cfg *config.Config) *cli.Command {
	a := &App{
		cfg:    cfg,
		logger: slog.Default(),
	}

	return &cli.Command{
		Name:  "prgate",
		Usage: "CI gate helpers for GitHub Actions pipelines",
		Commands: []*cli.Command{
			a.planCommentCommand(),
			a.coverageGateCommand(),
			a.retryCommand(),
			a.rulesCommand(),
			a.auditCommand(),
		},
	}
}

// githubClient builds the GitHub adapter, using the PRGATE_API_URL override
// when set (integration tests point it at a local server).
func (a *App) githubClient() *githubadapter.Client {
	if base := os.Getenv("PRGATE_API_URL"); base != "" {
		client, err := githubadapter.NewClientWithHTTPClient(nil, base)
		if err == nil {
			return client
		}
		a.logger.Warn("invalid PRGATE_API_URL, using api.github.com", "error", err)
	}
	return githubadapter.NewClient(a.cfg.GitHubToken)
}

// prNumber resolves the PR number: the --pr flag wins over the environment.
func (a *App) prNumber(cmd *cli.Command) int {
	if n := cmd.Int("pr"); n != 0 {
		return int(n)
	}
	return a.cfg.PRNumber
}

// prAuthor resolves the PR author login the same way.
func (a *App) prAuthor(cmd *cli.Command) string {
	if v := cmd.String("author"); v != "" {
		return v
	}
	return a.cfg.PRAuthor
}
