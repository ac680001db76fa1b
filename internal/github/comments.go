package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CommentService posts comments with a personal access token, for
// deployments that run without a GitHub App.
type CommentService struct {
	token string
	http  *http.Client
	base  string
}

func NewCommentService(token string) *CommentService {
	return &CommentService{
		token: token,
		http:  &http.Client{Timeout: 15 * time.Second},
		base:  defaultAPIBase,
	}
}

func (s *CommentService) CreateReviewComment(
	ctx context.Context,
	repo string,
	pr int,
	comment ReviewComment,
) error {

	url := fmt.Sprintf("%s/repos/%s/pulls/%d/comments", s.base, repo, pr)

	return postJSON(ctx, s.http, s.token, url, comment)
}

func (s *CommentService) CreateIssueComment(
	ctx context.Context,
	repo string,
	pr int,
	body string,
) error {

	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", s.base, repo, pr)

	return postJSON(ctx, s.http, s.token, url, map[string]string{"body": body})
}

func postJSON(ctx context.Context, hc *http.Client, token, url string, payload any) error {

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal comment: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("build comment request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/vnd.github+json")

	res, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return fmt.Errorf("github status %d: %s", res.StatusCode, string(msg))
	}

	return nil
}
