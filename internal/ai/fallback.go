package ai

import "context"

type FallbackImprover struct {
	primary   Improver
	secondary Improver
}

func NewFallback(p1, p2 Improver) *FallbackImprover {
	return &FallbackImprover{
		primary:   p1,
		secondary: p2,
	}
}

func (f *FallbackImprover) Improve(
	ctx context.Context,
	r ImproveRequest,
) (ImproveResponse, error) {

	resp, err := f.primary.Improve(ctx, r)
	if err == nil {
		return resp, nil
	}

	return f.secondary.Improve(ctx, r)
}
