package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/prgate/internal/adapter/driven/sqlite"
)

func (a *App) auditCommand() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "print the gate decision trail recorded in the audit database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Usage: "path to the audit database (overrides PRGATE_AUDIT_DB)",
			},
			&cli.StringFlag{
				Name:  "repo",
				Usage: "repository to list, owner/repo (overrides GITHUB_REPOSITORY)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dbPath := cmd.String("db")
			if dbPath == "" {
				dbPath = a.cfg.AuditDBPath
			}
			if dbPath == "" {
				return cli.Exit("audit: no database path, set --db or PRGATE_AUDIT_DB", 2)
			}

			repo := cmd.String("repo")
			if repo == "" {
				repo = a.cfg.Repo
			}
			if repo == "" {
				return cli.Exit("audit: no repository, set --repo or GITHUB_REPOSITORY", 2)
			}

			db, err := sqlite.NewDB(dbPath)
			if err != nil {
				return fmt.Errorf("opening audit database %s: %w", dbPath, err)
			}
			defer db.Close()

			if err := sqlite.RunMigrations(db.Writer); err != nil {
				return fmt.Errorf("preparing audit database: %w", err)
			}

			records, err := sqlite.NewDecisionRepo(db).ListDecisions(ctx, repo)
			if err != nil {
				return err
			}

			if len(records) == 0 {
				fmt.Fprintf(os.Stdout, "no decisions recorded for %s\n", repo)
				return nil
			}

			for _, rec := range records {
				outcome := "PASS"
				if rec.ShouldFail {
					outcome = "FAIL"
				}
				override := ""
				if rec.OverrideApplied {
					override = " [override]"
				}
				fmt.Fprintf(os.Stdout, "%s  %s#%d  %s%s  %.1f%% (threshold %.1f%%)  %s\n",
					rec.RecordedAt.Format("2006-01-02 15:04:05"),
					rec.Repo, rec.PRNumber, outcome, override,
					rec.CoveragePercent, rec.Threshold, rec.Reason,
				)
			}
			return nil
		},
	}
}
