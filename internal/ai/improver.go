package ai

import "context"

type ImproveRequest struct {
	Instructions string
	Text         string
}

type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type ImproveResponse struct {
	Content  string
	Provider string
	Model    string
	Usage    Usage
}

// Improver is the text-improvement oracle. Implementations may fail or
// return empty text; callers own the recovery.
type Improver interface {
	Improve(ctx context.Context, r ImproveRequest) (ImproveResponse, error)
}
