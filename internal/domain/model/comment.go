package model

import "time"

// IssueComment is a PR-level comment (GitHub Issues API).
type IssueComment struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
