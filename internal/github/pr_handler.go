package github

import (
	"context"
	"encoding/json"
)

func (h *WebhookHandler) handlePullRequest(ctx context.Context, payload []byte) {

	var event PullRequestEvent

	if err := json.Unmarshal(payload, &event); err != nil {
		h.logger.Error("failed to parse pr event", "error", err)
		return
	}

	if event.Action != "opened" && event.Action != "synchronize" {
		h.logger.Info("pr action ignored", "action", event.Action)
		return
	}

	if event.PullRequest.Draft {
		h.logger.Info("draft pr ignored",
			"repo", event.Repository.FullName,
			"pr", event.PullRequest.Number,
		)
		return
	}

	err := h.queue.Enqueue(
		ctx,
		event.Repository.FullName,
		event.PullRequest.Number,
		event.PullRequest.Head.SHA,
	)
	if err != nil {
		h.logger.Error("failed to enqueue pr",
			"repo", event.Repository.FullName,
			"pr", event.PullRequest.Number,
			"error", err,
		)
		return
	}

	h.logger.Info("pr enqueued",
		"repo", event.Repository.FullName,
		"pr", event.PullRequest.Number,
		"commit", event.PullRequest.Head.SHA,
	)
}
