package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Ollama struct {
	url    string
	model  string
	client *http.Client
}

func NewOllama(url, model string) *Ollama {
	return &Ollama{
		url:   url,
		model: model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type ollamaRequest struct {
	Model  string `json:"model"`
	System string `json:"system"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

func (o *Ollama) Improve(ctx context.Context, r ImproveRequest) (ImproveResponse, error) {

	reqBody := ollamaRequest{
		Model:  o.model,
		System: r.Instructions,
		Prompt: r.Text,
		Stream: false,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return ImproveResponse{}, fmt.Errorf("marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		"POST",
		o.url+"/api/generate",
		bytes.NewBuffer(b),
	)
	if err != nil {
		return ImproveResponse{}, fmt.Errorf("build ollama request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	res, err := o.client.Do(req)
	if err != nil {
		return ImproveResponse{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return ImproveResponse{}, fmt.Errorf("ollama status %d: %s", res.StatusCode, string(msg))
	}

	var out ollamaResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return ImproveResponse{}, fmt.Errorf("decode ollama response: %w", err)
	}

	return ImproveResponse{
		Content:  out.Response,
		Provider: "ollama",
		Model:    o.model,
		Usage:    estimateUsage(r.Instructions+r.Text, out.Response),
	}, nil
}

func estimateUsage(prompt, completion string) Usage {
	promptTokens := estimateTokens(prompt)
	completionTokens := estimateTokens(completion)
	return Usage{
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	}
}

func estimateTokens(s string) int {
	// ~4 chars/token for English-like text; ollama reports no usage.
	if len(s) == 0 {
		return 0
	}
	n := len(s) / 4
	if n == 0 {
		return 1
	}
	return n
}
