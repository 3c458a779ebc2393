package driven

import (
	"context"

	"github.com/ericfisherdev/prgate/internal/domain/model"
)

// ReviewFetcher defines the driven port for listing pull request reviews.
// Implementations return reviews in GitHub fetch order (oldest first); the
// approval resolver relies on that ordering for last-write-wins reduction.
type ReviewFetcher interface {
	FetchReviews(ctx context.Context, repoFullName string, prNumber int) ([]model.Review, error)
}

// LabelFetcher defines the driven port for listing a pull request's labels.
type LabelFetcher interface {
	FetchLabels(ctx context.Context, repoFullName string, prNumber int) ([]string, error)
}

// CommentStore defines the driven port for PR-level comment CRUD. Marker
// matching is the comment service's job; the store only moves comments.
type CommentStore interface {
	ListComments(ctx context.Context, repoFullName string, prNumber int) ([]model.IssueComment, error)
	CreateComment(ctx context.Context, repoFullName string, prNumber int, body string) error
	UpdateComment(ctx context.Context, repoFullName string, commentID int64, body string) error
	DeleteComment(ctx context.Context, repoFullName string, commentID int64) error
}
