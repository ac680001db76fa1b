package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ai-patch-suggester/internal/ai"
)

// Improver is a testify mock of ai.Improver.
type Improver struct {
	mock.Mock
}

func NewImprover(t mock.TestingT) *Improver {
	m := &Improver{}
	m.Mock.Test(t)
	return m
}

func (m *Improver) Improve(ctx context.Context, r ai.ImproveRequest) (ai.ImproveResponse, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(ai.ImproveResponse), args.Error(1)
}
