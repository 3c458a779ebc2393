package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/prgate/internal/domain/model"
)

func testRecord(pr int, fail bool, at time.Time) model.DecisionRecord {
	return model.DecisionRecord{
		Repo:            "owner/repo",
		PRNumber:        pr,
		ShouldFail:      fail,
		CoveragePercent: 73.5,
		Threshold:       80,
		Reason:          model.ReasonBelowThreshold,
		OverrideApplied: false,
		RecordedAt:      at,
	}
}

func TestRecordAndListDecisions(t *testing.T) {
	repo := NewDecisionRepo(setupTestDB(t))
	ctx := context.Background()
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.RecordDecision(ctx, testRecord(7, true, now)))

	rec2 := testRecord(8, false, now.Add(time.Hour))
	rec2.Reason = model.ReasonOverrideApplied
	rec2.OverrideApplied = true
	require.NoError(t, repo.RecordDecision(ctx, rec2))

	records, err := repo.ListDecisions(ctx, "owner/repo")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, 8, records[0].PRNumber)
	assert.False(t, records[0].ShouldFail)
	assert.True(t, records[0].OverrideApplied)
	assert.Equal(t, model.ReasonOverrideApplied, records[0].Reason)

	assert.Equal(t, 7, records[1].PRNumber)
	assert.True(t, records[1].ShouldFail)
	assert.Equal(t, 73.5, records[1].CoveragePercent)
	assert.Equal(t, float64(80), records[1].Threshold)
	assert.True(t, records[1].RecordedAt.Equal(now))
}

func TestListDecisions_FiltersByRepo(t *testing.T) {
	repo := NewDecisionRepo(setupTestDB(t))
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	require.NoError(t, repo.RecordDecision(ctx, testRecord(1, true, now)))

	other := testRecord(2, false, now)
	other.Repo = "owner/other"
	require.NoError(t, repo.RecordDecision(ctx, other))

	records, err := repo.ListDecisions(ctx, "owner/repo")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1, records[0].PRNumber)
}

func TestListDecisions_EmptyRepo(t *testing.T) {
	repo := NewDecisionRepo(setupTestDB(t))

	records, err := repo.ListDecisions(context.Background(), "owner/unknown")

	require.NoError(t, err)
	assert.Empty(t, records)
}
