package model

import "time"

// ReviewState represents the state of a pull request review.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "approved"
	ReviewStateChangesRequested ReviewState = "changes_requested"
	ReviewStateCommented        ReviewState = "commented"
	ReviewStatePending          ReviewState = "pending"
	ReviewStateDismissed        ReviewState = "dismissed"
)

// Meaningful reports whether the state participates in approval resolution.
// COMMENTED and PENDING reviews never overwrite a prior meaningful state.
func (s ReviewState) Meaningful() bool {
	switch s {
	case ReviewStateApproved, ReviewStateChangesRequested, ReviewStateDismissed:
		return true
	default:
		return false
	}
}

// Review represents a review submitted on a pull request.
type Review struct {
	ID            int64
	ReviewerLogin string
	State         ReviewState
	SubmittedAt   time.Time
}
