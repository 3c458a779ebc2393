package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ericfisherdev/prgate/internal/adapter/driven/execrunner"
	"github.com/ericfisherdev/prgate/internal/application"
)

func (a *App) retryCommand() *cli.Command {
	return &cli.Command{
		Name:      "retry",
		Usage:     "run a command with bounded exponential backoff on transient failures",
		ArgsUsage: "-- command [args...]",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			argv := cmd.Args().Slice()
			if len(argv) == 0 {
				return cli.Exit("retry: no command given", 2)
			}

			svc := application.NewRetryService(
				execrunner.NewRunner(),
				a.cfg.RetryMaxAttempts,
				a.cfg.RetryBaseDelay,
			)

			code, err := svc.Run(ctx, argv)
			if err != nil {
				return cli.Exit(fmt.Sprintf("retry: %v", err), 125)
			}
			if code != 0 {
				// Pass the wrapped command's exit code through unchanged.
				return cli.Exit("", code)
			}
			return nil
		},
	}
}
