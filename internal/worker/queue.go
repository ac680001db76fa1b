package worker

import "context"

type Queue interface {
	Push(ctx context.Context, j Job) error
	Pop(ctx context.Context) (Job, error)
}

// Job is one PR to annotate. CommitID is the head SHA review comments
// must be anchored to.
type Job struct {
	Repo     string `json:"repo"`
	PR       int    `json:"pr"`
	CommitID string `json:"commit_id"`
}
