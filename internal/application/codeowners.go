package application

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ericfisherdev/prgate/internal/domain/model"
	"github.com/ericfisherdev/prgate/internal/domain/port/driven"
)

// ParseCodeowners extracts individual owner handles from CODEOWNERS content.
// Comments are stripped, "@handle" mentions are collected, and entries
// containing "/" are excluded: those are team references, and reviewer logins
// are never team slugs.
func ParseCodeowners(data []byte) model.CodeownersSet {
	owners := model.CodeownersSet{}

	for _, line := range strings.Split(string(data), "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}

		for _, field := range strings.Fields(line) {
			if !strings.HasPrefix(field, "@") {
				continue
			}
			handle := strings.TrimPrefix(field, "@")
			if handle == "" || strings.Contains(handle, "/") {
				continue
			}
			owners.Add(handle)
		}
	}

	return owners
}

// normalizeAuthor lowercases a login and strips an optional "-bot" suffix so
// that an automation identity matches its owning human handle.
func normalizeAuthor(login string) string {
	return strings.TrimSuffix(strings.ToLower(login), "-bot")
}

// latestMeaningfulStates reduces a review list to the latest meaningful state
// per reviewer login. Reviews are processed in fetch order (oldest first), so
// a later APPROVED/CHANGES_REQUESTED/DISMISSED overwrites an earlier one,
// while COMMENTED and PENDING reviews are skipped entirely. Reviews authored
// by prAuthor are excluded; self-approval never counts.
func latestMeaningfulStates(reviews []model.Review, prAuthor string) map[string]model.ReviewState {
	states := make(map[string]model.ReviewState)

	for _, r := range reviews {
		if strings.EqualFold(r.ReviewerLogin, prAuthor) {
			continue
		}
		if !r.State.Meaningful() {
			continue
		}
		states[strings.ToLower(r.ReviewerLogin)] = r.State
	}

	return states
}

// ApprovalResolver decides whether a coverage override has codeowner
// approval. It fails closed on every degraded input: unreadable CODEOWNERS,
// empty owner set, or a failed review fetch all resolve to "not approved".
type ApprovalResolver struct {
	reviews        driven.ReviewFetcher
	files          driven.FileReader
	codeownersPath string
	logger         *slog.Logger
}

// NewApprovalResolver creates an ApprovalResolver reading the CODEOWNERS file
// at codeownersPath.
func NewApprovalResolver(reviews driven.ReviewFetcher, files driven.FileReader, codeownersPath string) *ApprovalResolver {
	return &ApprovalResolver{
		reviews:        reviews,
		files:          files,
		codeownersPath: codeownersPath,
		logger:         slog.Default(),
	}
}

// HasApproval reports whether any codeowner's latest meaningful review state
// is APPROVED.
//
// Solo-developer exception: when the owner set has exactly one member and
// that member is the PR author (with an optional "-bot" suffix normalized
// away on both sides), approval is implicit. The platform forbids
// self-review, so no other approver can exist for that repository.
func (r *ApprovalResolver) HasApproval(ctx context.Context, repoFullName string, prNumber int, prAuthor string) bool {
	data, err := r.files.ReadFile(r.codeownersPath)
	if err != nil {
		r.logger.Warn("CODEOWNERS unreadable, override denied",
			"path", r.codeownersPath,
			"error", err,
		)
		return false
	}

	owners := ParseCodeowners(data)
	if owners.Len() == 0 {
		r.logger.Warn("CODEOWNERS lists no individual owners, override denied",
			"path", r.codeownersPath,
		)
		return false
	}

	if sole := owners.Sole(); sole != "" && normalizeAuthor(sole) == normalizeAuthor(prAuthor) {
		r.logger.Info("sole codeowner is the PR author, override implicitly approved",
			"owner", sole,
		)
		return true
	}

	reviews, err := r.reviews.FetchReviews(ctx, repoFullName, prNumber)
	if err != nil {
		r.logger.Warn("review fetch failed, override denied",
			"repo", repoFullName,
			"pr", prNumber,
			"error", err,
		)
		return false
	}

	for login, state := range latestMeaningfulStates(reviews, prAuthor) {
		if state == model.ReviewStateApproved && owners.Contains(login) {
			return true
		}
	}

	return false
}
