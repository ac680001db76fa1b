package worker

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-patch-suggester/internal/ai"
	"ai-patch-suggester/internal/budget"
	"ai-patch-suggester/internal/cost"
	"ai-patch-suggester/internal/dedup"
	"ai-patch-suggester/internal/diff"
	"ai-patch-suggester/internal/github"
	"ai-patch-suggester/internal/observability"
	"ai-patch-suggester/internal/ratelimit"
	"ai-patch-suggester/internal/retry"
	"ai-patch-suggester/internal/suggest"

	"golang.org/x/time/rate"
)

const jobTimeout = 90 * time.Second

// Processor drains the job queue and runs the per-line suggestion
// pipeline for each PR. Failures stay local to the line that caused
// them; a job never errors past handle.
type Processor struct {
	queue        Queue
	client       github.Client
	comments     github.CommentClient
	dedup        dedup.Store
	logger       *observability.Logger
	improver     ai.Improver
	instructions string
	rateLimiter  *ratelimit.Limiter
	guard        *budget.Guard

	postRetries   int
	postRetryWait time.Duration
}

func NewProcessor(
	q Queue,
	c github.Client,
	comments github.CommentClient,
	d dedup.Store,
	l *observability.Logger,
	improver ai.Improver,
	instructions string,
	rl *ratelimit.Limiter,
	guard *budget.Guard,
) *Processor {

	return &Processor{
		queue:        q,
		client:       c,
		comments:     comments,
		dedup:        d,
		logger:       l,
		improver:     improver,
		instructions: instructions,
		rateLimiter:  rl,
		guard:        guard,

		postRetries:   3,
		postRetryWait: time.Second,
	}
}

func (p *Processor) Start(ctx context.Context) {

	go func() {
		for {
			job, err := p.queue.Pop(ctx)
			if err != nil {
				if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return
				}
				continue
			}

			p.handle(ctx, job)
		}
	}()
}

func (p *Processor) handle(parent context.Context, j Job) {

	ctx, cancel := context.WithTimeout(parent, jobTimeout)
	defer cancel()

	files, err := p.client.GetPRFiles(ctx, j.Repo, j.PR)
	if err != nil {
		p.logger.Error("get files failed", "repo", j.Repo, "pr", j.PR, "err", err)
		return
	}
	if len(files) == 0 {
		p.logger.Info("nothing reviewable", "repo", j.Repo, "pr", j.PR)
		return
	}

	limiter := p.rateLimiter.Get(j.Repo)

	posted := 0
	for _, f := range files {

		n, blockReason := p.suggestFile(ctx, j, f, limiter)
		posted += n

		if blockReason != "" {
			p.notifyBudgetBlock(ctx, j, blockReason)
			break
		}
	}

	if err := p.comments.CreateIssueComment(ctx, j.Repo, j.PR, formatSummary(len(files), posted)); err != nil {
		p.logger.Error("summary comment failed", "repo", j.Repo, "pr", j.PR, "err", err)
	}

	p.logger.Info("job finished",
		"repo", j.Repo,
		"pr", j.PR,
		"files", len(files),
		"suggestions", posted,
	)
}

// suggestFile annotates one file's patch. It returns how many comments
// were posted and, when the budget guard trips, the block reason. Any
// panic inside the scan/loop is swallowed and the file reports zero.
func (p *Processor) suggestFile(
	ctx context.Context,
	j Job,
	f github.PRFile,
	limiter *rate.Limiter,
) (count int, blockReason string) {

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("file aborted", "file", f.Filename, "panic", r)
			count = 0
			blockReason = ""
		}
	}()

	candidates := diff.Scan(f.Patch)
	if len(candidates) == 0 {
		return 0, ""
	}

	for _, c := range candidates {

		if strings.TrimSpace(c.Content) == "" {
			observability.LinesSkipped.WithLabelValues("blank").Inc()
			continue
		}

		if reason := p.budgetBlocked(ctx, j); reason != "" {
			return count, reason
		}

		if err := limiter.Wait(ctx); err != nil {
			p.logger.Error("rate limiter wait failed", "err", err)
			return count, ""
		}

		start := time.Now()

		resp, err := p.improver.Improve(ctx, ai.ImproveRequest{
			Instructions: p.instructions,
			Text:         c.Content,
		})

		provider := resp.Provider
		if provider == "" {
			provider = "primary"
		}

		observability.OracleCalls.WithLabelValues(provider).Inc()
		observability.OracleLatency.WithLabelValues(provider).Observe(time.Since(start).Seconds())

		if err != nil {
			observability.OracleErrors.WithLabelValues(provider).Inc()
			p.logger.Error("oracle failed", "file", f.Filename, "index", c.PatchIndex, "err", err)
			continue
		}

		if strings.TrimSpace(resp.Content) == "" {
			observability.LinesSkipped.WithLabelValues("empty_response").Inc()
			continue
		}

		p.recordSpend(ctx, j, resp)

		outcome := suggest.Parse(resp.Content, c.Content)
		if outcome.Kind == suggest.NoChange {
			observability.LinesSkipped.WithLabelValues("no_change").Inc()
			continue
		}

		position := diff.Position(f.Patch, c.PatchIndex)

		comment := github.ReviewComment{
			Body:     outcome.Body(),
			CommitID: j.CommitID,
			Path:     f.Filename,
			Position: position,
		}

		key := suggestionKey(j.Repo, f.Filename, position, comment.Body)
		if p.dedup.Seen(ctx, key) {
			observability.LinesSkipped.WithLabelValues("duplicate").Inc()
			continue
		}

		err = retry.Do(ctx, p.postRetries, p.postRetryWait, func() error {
			return p.comments.CreateReviewComment(ctx, j.Repo, j.PR, comment)
		})
		if err != nil {
			observability.LinesSkipped.WithLabelValues("post_failed").Inc()
			p.logger.Error("comment failed",
				"file", f.Filename,
				"position", position,
				"err", err,
			)
			continue
		}

		_ = p.dedup.Mark(ctx, key)
		observability.SuggestionsPosted.WithLabelValues(kindLabel(outcome.Kind)).Inc()
		count++
	}

	return count, ""
}

func (p *Processor) budgetBlocked(ctx context.Context, j Job) string {
	if !p.guard.Enabled() {
		return ""
	}

	allowed, reason, err := p.guard.Allow(ctx, j.Repo, j.PR, 0, time.Now())
	if err != nil {
		p.logger.Error("budget check failed", "err", err)
		return ""
	}
	if allowed {
		return ""
	}

	observability.BudgetBlocks.WithLabelValues("oracle").Inc()
	return reason
}

func (p *Processor) recordSpend(ctx context.Context, j Job, resp ai.ImproveResponse) {

	observability.OracleTokens.WithLabelValues(resp.Provider, resp.Model, "prompt").
		Add(float64(resp.Usage.PromptTokens))
	observability.OracleTokens.WithLabelValues(resp.Provider, resp.Model, "completion").
		Add(float64(resp.Usage.CompletionTokens))

	usd := cost.EstimateUSD(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	if usd <= 0 {
		return
	}

	observability.OracleCostUSD.WithLabelValues(resp.Provider, resp.Model).Add(usd)

	if err := p.guard.Record(ctx, j.Repo, j.PR, usd, time.Now()); err != nil {
		p.logger.Error("budget record failed", "err", err)
	}
}

func (p *Processor) notifyBudgetBlock(ctx context.Context, j Job, reason string) {

	body := "Budget guard triggered: " + reason + "\n\nRemaining lines were not reviewed."

	if err := p.comments.CreateIssueComment(ctx, j.Repo, j.PR, body); err != nil {
		p.logger.Error("budget notice failed", "repo", j.Repo, "pr", j.PR, "err", err)
	}
}

func formatSummary(filesReviewed, posted int) string {

	if posted == 0 {
		return fmt.Sprintf(
			"## AI patch suggestions\n\nFiles reviewed: %d\n\nNo improvements suggested.",
			filesReviewed,
		)
	}

	return fmt.Sprintf(
		"## AI patch suggestions\n\nFiles reviewed: %d\nSuggestions posted: %d",
		filesReviewed, posted,
	)
}

func kindLabel(k suggest.Kind) string {
	if k == suggest.Structured {
		return "reasoned"
	}
	return "bare"
}

func suggestionKey(repo, file string, position int, body string) string {
	h := sha1.Sum([]byte(body))
	return fmt.Sprintf("%s:%s:%d:%s", repo, file, position, hex.EncodeToString(h[:]))
}
