package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"ai-patch-suggester/internal/github"
)

// CommentClient is a testify mock of github.CommentClient.
type CommentClient struct {
	mock.Mock
}

func NewCommentClient(t mock.TestingT) *CommentClient {
	m := &CommentClient{}
	m.Mock.Test(t)
	return m
}

func (m *CommentClient) CreateReviewComment(ctx context.Context, repo string, pr int, c github.ReviewComment) error {
	args := m.Called(ctx, repo, pr, c)
	return args.Error(0)
}

func (m *CommentClient) CreateIssueComment(ctx context.Context, repo string, pr int, body string) error {
	args := m.Called(ctx, repo, pr, body)
	return args.Error(0)
}
