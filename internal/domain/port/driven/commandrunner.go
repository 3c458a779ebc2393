package driven

import "context"

// CommandRunner defines the driven port for executing an external command.
// It returns the command's exit code; err is non-nil only when the command
// could not be started at all.
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string) (exitCode int, err error)
}
