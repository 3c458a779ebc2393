package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/prgate/internal/adapter/driven/fsys"
	"github.com/ericfisherdev/prgate/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/prgate/internal/adapter/driven/telemetry"
	"github.com/ericfisherdev/prgate/internal/application"
	"github.com/ericfisherdev/prgate/internal/domain/model"
	"github.com/ericfisherdev/prgate/internal/domain/port/driven"
)

func (a *App) coverageGateCommand() *cli.Command {
	return &cli.Command{
		Name:  "coverage-gate",
		Usage: "enforce the diff-coverage threshold with a codeowner-approved override",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "report",
				Usage:    "path to the coverage report JSON artifact",
				Required: true,
			},
			&cli.IntFlag{
				Name:  "pr",
				Usage: "pull request number (overrides PRGATE_PR_NUMBER)",
			},
			&cli.StringFlag{
				Name:  "author",
				Usage: "pull request author login (overrides PRGATE_PR_AUTHOR)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			gh := a.githubClient()

			in := application.GateInput{
				Report:        a.loadReport(cmd.String("report")),
				Repo:          a.cfg.Repo,
				PRNumber:      a.prNumber(cmd),
				PRAuthor:      a.prAuthor(cmd),
				Labels:        a.fetchLabels(ctx, gh, a.prNumber(cmd)),
				Threshold:     a.cfg.Threshold,
				OverrideLabel: a.cfg.OverrideLabel,
			}

			resolver := application.NewApprovalResolver(gh, fsys.NewReader(), a.cfg.CodeownersPath)

			sink, store, cleanup := a.buildSinks()
			defer cleanup()

			gate := application.NewGateService(resolver, sink, store)
			decision := gate.Evaluate(ctx, in)
			gate.Publish(ctx, in, decision)

			a.logger.Info("coverage gate decided",
				"should_fail", decision.ShouldFail,
				"coverage_percent", decision.CoveragePercent,
				"reason", decision.Reason,
				"override_applied", decision.OverrideApplied,
			)

			if decision.ShouldFail {
				return cli.Exit(fmt.Sprintf("coverage gate failed: %s", decision.Reason), 1)
			}
			return nil
		},
	}
}

// loadReport reads and parses the coverage artifact. Any failure yields a nil
// report, which the gate treats as its most restrictive branch.
func (a *App) loadReport(path string) *model.CoverageReport {
	data, err := fsys.NewReader().ReadFile(path)
	if err != nil {
		a.logger.Warn("coverage report unreadable", "path", path, "error", err)
		return nil
	}

	report, err := application.ParseCoverageReport(data)
	if err != nil {
		a.logger.Warn("coverage report invalid", "path", path, "error", err)
		return nil
	}

	return report
}

// fetchLabels lists the PR's labels. A fetch failure degrades to "no labels",
// which can only remove the override path, never grant it.
func (a *App) fetchLabels(ctx context.Context, fetcher driven.LabelFetcher, prNumber int) []string {
	if prNumber == 0 {
		return nil
	}

	labels, err := fetcher.FetchLabels(ctx, a.cfg.Repo, prNumber)
	if err != nil {
		a.logger.Warn("label fetch failed, treating as unlabeled", "error", err)
		return nil
	}
	return labels
}

// buildSinks creates the telemetry sender and the audit store when they are
// configured, along with a cleanup closing the audit database. Neither sink
// failing to initialize stops the gate; the decision matters more than its
// side channels.
func (a *App) buildSinks() (driven.TelemetrySink, driven.DecisionStore, func()) {
	var sink driven.TelemetrySink
	if a.cfg.TelemetryURL != "" {
		sink = telemetry.NewSender(a.cfg.TelemetryURL, a.cfg.TelemetryToken, runMetadata())
	}

	cleanup := func() {}
	var store driven.DecisionStore
	if a.cfg.AuditDBPath != "" {
		db, err := sqlite.NewDB(a.cfg.AuditDBPath)
		if err != nil {
			a.logger.Warn("audit database unavailable", "path", a.cfg.AuditDBPath, "error", err)
			return sink, nil, cleanup
		}
		if err := sqlite.RunMigrations(db.Writer); err != nil {
			a.logger.Warn("audit migrations failed", "error", err)
			_ = db.Close()
			return sink, nil, cleanup
		}
		store = sqlite.NewDecisionRepo(db)
		cleanup = func() { _ = db.Close() }
	}

	return sink, store, cleanup
}

// runMetadata collects GitHub Actions run context for telemetry events.
func runMetadata() map[string]any {
	meta := make(map[string]any)
	for key, env := range map[string]string{
		"workflow": "GITHUB_WORKFLOW",
		"run_id":   "GITHUB_RUN_ID",
		"actor":    "GITHUB_ACTOR",
		"sha":      "GITHUB_SHA",
	} {
		if v := os.Getenv(env); v != "" {
			meta[key] = v
		}
	}
	return meta
}
