package driven

import (
	"context"

	"github.com/ericfisherdev/prgate/internal/domain/model"
)

// TelemetrySink defines the driven port for posting telemetry events.
// Sends are fire-and-forget from the gate's point of view: callers log the
// returned error and move on, a send failure never fails the decision.
type TelemetrySink interface {
	Send(ctx context.Context, event model.TelemetryEvent) error
}
