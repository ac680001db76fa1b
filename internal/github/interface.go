package github

import "context"

type Client interface {
	GetPRFiles(ctx context.Context, repo string, pr int) ([]PRFile, error)
	GetPRDiff(ctx context.Context, repo string, pr int) (string, error)
}

type CommentClient interface {
	CreateReviewComment(ctx context.Context, repo string, pr int, c ReviewComment) error
	CreateIssueComment(ctx context.Context, repo string, pr int, body string) error
}

// JobQueue is all the webhook layer knows about the worker side.
type JobQueue interface {
	Enqueue(ctx context.Context, repo string, pr int, commitID string) error
}
