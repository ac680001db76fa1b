package app

import (
	"context"
	"net/http"

	"ai-patch-suggester/internal/ai"
	"ai-patch-suggester/internal/budget"
	"ai-patch-suggester/internal/dedup"
	"ai-patch-suggester/internal/github"
	"ai-patch-suggester/internal/observability"
	"ai-patch-suggester/internal/ratelimit"
	"ai-patch-suggester/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {

	mux := http.NewServeMux()

	queue := worker.NewQueue(s.cfg)

	// adapter so the github package doesn't know worker types
	adapter := worker.NewAdapter(queue)

	ghClient := github.NewClient(s.cfg, s.logger)

	// prefer the App installation for comments; fall back to a PAT
	var comments github.CommentClient = ghClient
	if s.cfg.GitHubToken != "" {
		comments = github.NewCommentService(s.cfg.GitHubToken)
	}

	hook := github.NewWebhookHandler(s.cfg, s.logger, adapter)

	improver := ai.NewCircuitBreaker(ai.NewImprover(s.cfg))

	// local model picks up the pieces when the primary trips
	fallback := ai.NewFallback(
		improver,
		ai.NewOllama(
			s.cfg.OllamaURL,
			s.cfg.OllamaModel,
		),
	)

	guard := budget.NewGuard(
		s.cfg.BudgetEnabled,
		s.cfg.BudgetDailyUSD,
		s.cfg.BudgetPRUSD,
		budget.NewMemoryStore(),
	)

	processor := worker.NewProcessor(
		queue,
		ghClient,
		comments,
		dedup.NewMemory(),
		s.logger,
		fallback,
		ai.DefaultInstructions(),
		ratelimit.New(s.cfg.RateLimitRPS, s.cfg.RateLimitBurst),
		guard,
	)

	observability.InitMetrics()

	mux.HandleFunc("/health", s.health)
	mux.HandleFunc("/webhook/github", hook.Handle)
	mux.Handle("/metrics", promhttp.Handler())

	processor.Start(context.Background())

	return mux
}
