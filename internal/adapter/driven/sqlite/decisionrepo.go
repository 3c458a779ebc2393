package sqlite

import (
	"context"
	"fmt"

	"github.com/ericfisherdev/prgate/internal/domain/model"
	"github.com/ericfisherdev/prgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.DecisionStore = (*DecisionRepo)(nil)

// DecisionRepo is the SQLite implementation of the DecisionStore port.
type DecisionRepo struct {
	db *DB
}

// NewDecisionRepo creates a new DecisionRepo backed by the given DB.
func NewDecisionRepo(db *DB) *DecisionRepo {
	return &DecisionRepo{db: db}
}

// RecordDecision appends one gate decision to the audit trail.
func (r *DecisionRepo) RecordDecision(ctx context.Context, rec model.DecisionRecord) error {
	const query = `
		INSERT INTO decisions (repo, pr_number, should_fail, coverage_percent, threshold, reason, override_applied, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	shouldFail := 0
	if rec.ShouldFail {
		shouldFail = 1
	}
	overrideApplied := 0
	if rec.OverrideApplied {
		overrideApplied = 1
	}

	if _, err := r.db.Writer.ExecContext(ctx, query,
		rec.Repo, rec.PRNumber, shouldFail, rec.CoveragePercent,
		rec.Threshold, string(rec.Reason), overrideApplied, rec.RecordedAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert decision for %s#%d: %w", rec.Repo, rec.PRNumber, err)
	}

	return nil
}

// ListDecisions returns all recorded decisions for a repository, newest first.
func (r *DecisionRepo) ListDecisions(ctx context.Context, repoFullName string) ([]model.DecisionRecord, error) {
	const query = `
		SELECT id, repo, pr_number, should_fail, coverage_percent, threshold, reason, override_applied, recorded_at
		FROM decisions
		WHERE repo = ?
		ORDER BY recorded_at DESC, id DESC
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repoFullName)
	if err != nil {
		return nil, fmt.Errorf("query decisions for %s: %w", repoFullName, err)
	}
	defer rows.Close()

	var records []model.DecisionRecord
	for rows.Next() {
		var rec model.DecisionRecord
		var shouldFail, overrideApplied int
		var reason string

		if err := rows.Scan(
			&rec.ID, &rec.Repo, &rec.PRNumber, &shouldFail,
			&rec.CoveragePercent, &rec.Threshold, &reason,
			&overrideApplied, &rec.RecordedAt,
		); err != nil {
			return nil, fmt.Errorf("scan decision row: %w", err)
		}

		rec.ShouldFail = shouldFail == 1
		rec.OverrideApplied = overrideApplied == 1
		rec.Reason = model.GateReason(reason)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decision rows: %w", err)
	}

	return records, nil
}
