package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v82/github"

	"github.com/ericfisherdev/prgate/internal/domain/model"
)

// ListComments retrieves all PR-level comments (Issues API) for a pull
// request. It handles pagination automatically.
func (c *Client) ListComments(ctx context.Context, repoFullName string, prNumber int) ([]model.IssueComment, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var allComments []model.IssueComment

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing comments for %s#%d (page %d): %w", repoFullName, prNumber, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/comments", opts.Page, len(comments))

		for _, comment := range comments {
			allComments = append(allComments, mapIssueComment(comment))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allComments, nil
}

// CreateComment creates a PR-level comment (via the Issues API).
func (c *Client) CreateComment(ctx context.Context, repoFullName string, prNumber int, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, _, err = c.gh.Issues.CreateComment(ctx, owner, repo, prNumber, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("creating comment on %s#%d: %w", repoFullName, prNumber, err)
	}

	return nil
}

// UpdateComment replaces the body of an existing PR-level comment.
func (c *Client) UpdateComment(ctx context.Context, repoFullName string, commentID int64, body string) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	_, _, err = c.gh.Issues.EditComment(ctx, owner, repo, commentID, &gh.IssueComment{
		Body: gh.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("updating comment %d on %s: %w", commentID, repoFullName, err)
	}

	return nil
}

// DeleteComment removes a PR-level comment.
func (c *Client) DeleteComment(ctx context.Context, repoFullName string, commentID int64) error {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return err
	}

	if _, err := c.gh.Issues.DeleteComment(ctx, owner, repo, commentID); err != nil {
		return fmt.Errorf("deleting comment %d on %s: %w", commentID, repoFullName, err)
	}

	return nil
}

// mapIssueComment converts a go-github IssueComment to a domain model IssueComment.
func mapIssueComment(c *gh.IssueComment) model.IssueComment {
	return model.IssueComment{
		ID:        c.GetID(),
		Author:    c.GetUser().GetLogin(),
		Body:      c.GetBody(),
		CreatedAt: c.GetCreatedAt().Time,
		UpdatedAt: c.GetUpdatedAt().Time,
	}
}
