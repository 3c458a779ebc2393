package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/ericfisherdev/prgate/internal/domain/port/driven"
)

// retryableExitCodes are the curl exit codes worth retrying: couldn't
// resolve/connect, connection failed, operation timeout, and recv error.
// Anything else passes through on the first attempt.
var retryableExitCodes = map[int]struct{}{
	6:  {}, // couldn't resolve host
	7:  {}, // couldn't connect
	28: {}, // operation timed out
	56: {}, // recv failure
}

// RetryService runs a command under bounded exponential backoff:
// attempt <= MaxAttempts, delay = BaseDelay * 2^(attempt-1).
type RetryService struct {
	runner      driven.CommandRunner
	maxAttempts int
	baseDelay   time.Duration
	logger      *slog.Logger
}

// NewRetryService creates a RetryService. maxAttempts < 1 is clamped to 1.
func NewRetryService(runner driven.CommandRunner, maxAttempts int, baseDelay time.Duration) *RetryService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryService{
		runner:      runner,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		logger:      slog.Default(),
	}
}

// backoffCeiling caps the delay between attempts. The attempt count comes
// from user configuration, so the doubled interval must never be allowed to
// overflow into a negative duration.
const backoffCeiling = 15 * time.Minute

// maxBackoffInterval returns baseDelay doubled per remaining attempt, capped
// at backoffCeiling.
func maxBackoffInterval(baseDelay time.Duration, maxAttempts int) time.Duration {
	interval := baseDelay
	for i := 1; i < maxAttempts && interval < backoffCeiling; i++ {
		interval *= 2
	}
	if interval <= 0 || interval > backoffCeiling {
		return backoffCeiling
	}
	return interval
}

// retryableError carries a retryable exit code through the backoff loop.
type retryableError struct {
	exitCode int
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("command exited with retryable code %d", e.exitCode)
}

// Run executes argv, retrying on retryable exit codes until the attempt
// budget is spent. It returns 0 on eventual success, otherwise the last
// non-retryable or exhausted exit code. err is non-nil only when the command
// could not be started at all or the context was canceled.
func (s *RetryService) Run(ctx context.Context, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("no command given")
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.baseDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = maxBackoffInterval(s.baseDelay, s.maxAttempts)
	b.MaxElapsedTime = 0

	lastCode := 0
	attempt := 0

	operation := func() error {
		attempt++
		code, err := s.runner.Run(ctx, argv[0], argv[1:])
		if err != nil {
			return backoff.Permanent(fmt.Errorf("starting %q: %w", argv[0], err))
		}

		lastCode = code
		if code == 0 {
			return nil
		}

		if _, ok := retryableExitCodes[code]; ok {
			s.logger.Warn("command failed with retryable exit code",
				"command", argv[0],
				"exit_code", code,
				"attempt", attempt,
				"max_attempts", s.maxAttempts,
			)
			return &retryableError{exitCode: code}
		}

		// Non-retryable codes pass through immediately.
		return backoff.Permanent(&retryableError{exitCode: code})
	}

	err := backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(s.maxAttempts-1)), ctx))
	if err == nil {
		return 0, nil
	}

	var rerr *retryableError
	if errors.As(err, &rerr) {
		return rerr.exitCode, nil
	}
	return lastCode, err
}
