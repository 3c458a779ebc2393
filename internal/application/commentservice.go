package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ericfisherdev/prgate/internal/domain/model"
	"github.com/ericfisherdev/prgate/internal/domain/port/driven"
)

// ErrEmptyMarker is returned when the comment marker is empty. An empty
// marker would match unrelated comments, so it is a hard configuration error
// rather than a degraded mode.
var ErrEmptyMarker = errors.New("comment marker must not be empty")

// maxPlanChars caps how much plan text is embedded in a comment body.
// GitHub rejects bodies over 65536 characters; the cap leaves headroom for
// the marker and the surrounding markdown.
const maxPlanChars = 60000

const truncationNotice = "\n... (plan output truncated)"

// CommentService maintains the single marker-tagged plan comment on a PR.
// Idempotence comes from the marker: the comment matching it is updated in
// place, never duplicated, and deleted once the plan reports no changes.
type CommentService struct {
	comments driven.CommentStore
	logger   *slog.Logger
}

// NewCommentService creates a CommentService over the given comment store.
func NewCommentService(comments driven.CommentStore) *CommentService {
	return &CommentService{
		comments: comments,
		logger:   slog.Default(),
	}
}

// Sync brings the PR's plan comment in line with the current plan text.
// prNumber == 0 means the workflow was not triggered by a pull request; the
// sync is a no-op rather than an error so the same job can run on pushes.
func (s *CommentService) Sync(ctx context.Context, repoFullName string, prNumber int, marker, planText string, c model.Classification) error {
	if strings.TrimSpace(marker) == "" {
		return ErrEmptyMarker
	}

	if prNumber == 0 {
		s.logger.Info("no pull request in trigger context, skipping plan comment")
		return nil
	}

	existing, err := s.findByMarker(ctx, repoFullName, prNumber, marker)
	if err != nil {
		return err
	}

	if planHasNoChanges(planText) {
		if existing == nil {
			return nil
		}
		s.logger.Info("plan reports no changes, deleting plan comment", "comment_id", existing.ID)
		if err := s.comments.DeleteComment(ctx, repoFullName, existing.ID); err != nil {
			return fmt.Errorf("deleting plan comment: %w", err)
		}
		return nil
	}

	body := BuildCommentBody(marker, planText, c)

	if existing != nil {
		if existing.Body == body {
			s.logger.Info("plan comment already current", "comment_id", existing.ID)
			return nil
		}
		if err := s.comments.UpdateComment(ctx, repoFullName, existing.ID, body); err != nil {
			return fmt.Errorf("updating plan comment: %w", err)
		}
		return nil
	}

	if err := s.comments.CreateComment(ctx, repoFullName, prNumber, body); err != nil {
		return fmt.Errorf("creating plan comment: %w", err)
	}
	return nil
}

// findByMarker returns the first comment whose body contains the marker,
// or nil when none exists.
func (s *CommentService) findByMarker(ctx context.Context, repoFullName string, prNumber int, marker string) (*model.IssueComment, error) {
	comments, err := s.comments.ListComments(ctx, repoFullName, prNumber)
	if err != nil {
		return nil, fmt.Errorf("listing PR comments: %w", err)
	}

	for i := range comments {
		if strings.Contains(comments[i].Body, marker) {
			return &comments[i], nil
		}
	}
	return nil, nil
}

// BuildCommentBody renders the plan comment. The marker goes verbatim on the
// first line so lookups survive any rendering GitHub applies. Collapsible
// plans land inside a <details> block with a one-line explanation; everything
// else is shown in full.
func BuildCommentBody(marker, planText string, c model.Classification) string {
	if len(planText) > maxPlanChars {
		cut := maxPlanChars
		// Back up to a rune boundary so the cut never leaves a broken
		// UTF-8 sequence at the end of the comment body.
		for cut > 0 && !utf8.RuneStart(planText[cut]) {
			cut--
		}
		planText = planText[:cut] + truncationNotice
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\n## Terraform plan\n\n")

	if c.ShouldCollapse {
		b.WriteString("Only worker code changed (")
		b.WriteString(strings.Join(dedupe(c.ChangedAttrs), ", "))
		b.WriteString("); no infrastructure changes.\n\n")
		b.WriteString("<details>\n<summary>Show full plan</summary>\n\n")
		writePlanBlock(&b, planText)
		b.WriteString("\n</details>\n")
	} else {
		writePlanBlock(&b, planText)
	}

	return b.String()
}

func writePlanBlock(b *strings.Builder, planText string) {
	b.WriteString("```hcl\n")
	b.WriteString(planText)
	if !strings.HasSuffix(planText, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
}

// planHasNoChanges reports whether Terraform declared the plan empty.
func planHasNoChanges(planText string) bool {
	return strings.Contains(planText, "No changes.")
}

// dedupe keeps the first occurrence of each attribute name, preserving order.
func dedupe(attrs []string) []string {
	seen := make(map[string]struct{}, len(attrs))
	out := make([]string, 0, len(attrs))
	for _, a := range attrs {
		if _, ok := seen[a]; ok {
			continue
		}
		seen[a] = struct{}{}
		out = append(out, a)
	}
	return out
}
