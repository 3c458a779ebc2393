// Package execrunner implements the CommandRunner port over os/exec.
package execrunner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/ericfisherdev/prgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CommandRunner = (*Runner)(nil)

// Runner executes commands with stdio passed through to the parent process,
// so the wrapped command behaves exactly as if it ran unwrapped.
type Runner struct{}

// NewRunner creates a Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the command and returns its exit code. err is non-nil only
// when the command could not be started (missing binary, permission denied).
func (r *Runner) Run(ctx context.Context, name string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return 0, fmt.Errorf("running %q: %w", name, err)
}
