package worker

import "context"

// Adapter implements github.JobQueue without the github package
// depending on worker types.
type Adapter struct {
	q Queue
}

func NewAdapter(q Queue) *Adapter {
	return &Adapter{q: q}
}

func (a *Adapter) Enqueue(ctx context.Context, repo string, pr int, commitID string) error {
	return a.q.Push(ctx, Job{
		Repo:     repo,
		PR:       pr,
		CommitID: commitID,
	})
}
