package driven

import (
	"context"

	"github.com/ericfisherdev/prgate/internal/domain/model"
)

// DecisionStore defines the driven port for the decision audit trail.
type DecisionStore interface {
	// RecordDecision appends one gate decision to the audit trail.
	RecordDecision(ctx context.Context, rec model.DecisionRecord) error
	// ListDecisions returns all recorded decisions for a repository,
	// newest first.
	ListDecisions(ctx context.Context, repoFullName string) ([]model.DecisionRecord, error)
}
