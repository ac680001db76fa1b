package worker

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-patch-suggester/internal/ai"
	"ai-patch-suggester/internal/budget"
	"ai-patch-suggester/internal/config"
	"ai-patch-suggester/internal/dedup"
	"ai-patch-suggester/internal/github"
	"ai-patch-suggester/internal/observability"
	"ai-patch-suggester/internal/ratelimit"

	"github.com/stretchr/testify/require"
)

const singleAddPatch = "@@ -1,2 +1,3 @@\n line1\n+added line\n line2"

type clientStub struct {
	files []github.PRFile
	err   error
}

func (c *clientStub) GetPRFiles(ctx context.Context, repo string, pr int) ([]github.PRFile, error) {
	return c.files, c.err
}

func (c *clientStub) GetPRDiff(ctx context.Context, repo string, pr int) (string, error) {
	return "", nil
}

type improverStub struct {
	inputs  []string
	respond func(text string) (ai.ImproveResponse, error)
}

func (s *improverStub) Improve(ctx context.Context, r ai.ImproveRequest) (ai.ImproveResponse, error) {
	s.inputs = append(s.inputs, r.Text)
	return s.respond(r.Text)
}

func structuredResponse(text string) (ai.ImproveResponse, error) {
	return ai.ImproveResponse{
		Content:  "reason: R\nsuggestion: S",
		Provider: "test",
		Model:    "test-model",
	}, nil
}

type commentSpy struct {
	reviews     []github.ReviewComment
	issueBodies []string
	reviewErr   error
	failFirst   bool
	panicOnPost bool
	calls       int
}

func (s *commentSpy) CreateReviewComment(ctx context.Context, repo string, pr int, c github.ReviewComment) error {
	if s.panicOnPost {
		panic("sink exploded")
	}
	s.calls++
	if s.reviewErr != nil {
		return s.reviewErr
	}
	if s.failFirst && len(s.reviews) == 0 && s.calls <= 3 {
		return errors.New("transient 500")
	}
	s.reviews = append(s.reviews, c)
	return nil
}

func (s *commentSpy) CreateIssueComment(ctx context.Context, repo string, pr int, body string) error {
	s.issueBodies = append(s.issueBodies, body)
	return nil
}

func newTestProcessor(client github.Client, comments github.CommentClient, improver ai.Improver, guard *budget.Guard) *Processor {
	p := NewProcessor(
		NewMemoryQueue(1),
		client,
		comments,
		dedup.NewMemory(),
		observability.NewLogger(&config.Config{LogLevel: "error", Env: "test"}),
		improver,
		ai.DefaultInstructions(),
		ratelimit.New(1000, 1000),
		guard,
	)
	p.postRetryWait = time.Millisecond
	return p
}

func TestSuggestFile_PostsReasonedComment(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: structuredResponse}
	p := newTestProcessor(nil, comments, improver, nil)

	job := Job{Repo: "acme/repo", PR: 7, CommitID: "abc123"}
	file := github.PRFile{Filename: "main.go", Patch: singleAddPatch}

	count, blocked := p.suggestFile(context.Background(), job, file, p.rateLimiter.Get(job.Repo))

	require.Equal(t, 1, count)
	require.Empty(t, blocked)
	require.Equal(t, []string{"added line"}, improver.inputs)

	require.Len(t, comments.reviews, 1)
	c := comments.reviews[0]
	require.Equal(t, "**Reason for improvement:** R\n```suggestion\nS\n```", c.Body)
	require.Equal(t, "abc123", c.CommitID)
	require.Equal(t, "main.go", c.Path)
	require.Equal(t, 2, c.Position)
}

func TestSuggestFile_BareBodyWhenMarkersMissing(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: func(string) (ai.ImproveResponse, error) {
		return ai.ImproveResponse{Content: "improved text", Provider: "test"}, nil
	}}
	p := newTestProcessor(nil, comments, improver, nil)

	count, _ := p.suggestFile(context.Background(), Job{Repo: "a/b", PR: 1}, github.PRFile{
		Filename: "main.go",
		Patch:    singleAddPatch,
	}, p.rateLimiter.Get("a/b"))

	require.Equal(t, 1, count)
	require.Equal(t, "```suggestion\nimproved text\n```", comments.reviews[0].Body)
}

func TestSuggestFile_NoCandidates(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: structuredResponse}
	p := newTestProcessor(nil, comments, improver, nil)

	count, _ := p.suggestFile(context.Background(), Job{Repo: "a/b", PR: 1}, github.PRFile{
		Filename: "main.go",
		Patch:    "@@ -1,2 +1,1 @@\n line1\n-removed",
	}, p.rateLimiter.Get("a/b"))

	require.Zero(t, count)
	require.Empty(t, improver.inputs)
	require.Empty(t, comments.reviews)
}

func TestSuggestFile_BlankLinesNeverReachOracle(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: structuredResponse}
	p := newTestProcessor(nil, comments, improver, nil)

	patch := "@@ -1,1 +1,3 @@\n+\n+   \n+real line"

	count, _ := p.suggestFile(context.Background(), Job{Repo: "a/b", PR: 1}, github.PRFile{
		Filename: "main.go",
		Patch:    patch,
	}, p.rateLimiter.Get("a/b"))

	require.Equal(t, 1, count)
	require.Equal(t, []string{"real line"}, improver.inputs)
}

func TestSuggestFile_OracleErrorIsolatedPerLine(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: func(text string) (ai.ImproveResponse, error) {
		if text == "first" {
			return ai.ImproveResponse{}, errors.New("oracle down")
		}
		return structuredResponse(text)
	}}
	p := newTestProcessor(nil, comments, improver, nil)

	patch := "@@ -1,1 +1,3 @@\n+first\n+second"

	count, _ := p.suggestFile(context.Background(), Job{Repo: "a/b", PR: 1}, github.PRFile{
		Filename: "main.go",
		Patch:    patch,
	}, p.rateLimiter.Get("a/b"))

	require.Equal(t, 1, count)
	require.Equal(t, []string{"first", "second"}, improver.inputs)
	require.Len(t, comments.reviews, 1)
}

func TestSuggestFile_EmptyOracleResponseSkipped(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: func(string) (ai.ImproveResponse, error) {
		return ai.ImproveResponse{Content: "   ", Provider: "test"}, nil
	}}
	p := newTestProcessor(nil, comments, improver, nil)

	count, _ := p.suggestFile(context.Background(), Job{Repo: "a/b", PR: 1}, github.PRFile{
		Filename: "main.go",
		Patch:    singleAddPatch,
	}, p.rateLimiter.Get("a/b"))

	require.Zero(t, count)
	require.Empty(t, comments.reviews)
}

func TestSuggestFile_NoChangeResponseSkipped(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: func(text string) (ai.ImproveResponse, error) {
		return ai.ImproveResponse{Content: text, Provider: "test"}, nil
	}}
	p := newTestProcessor(nil, comments, improver, nil)

	count, _ := p.suggestFile(context.Background(), Job{Repo: "a/b", PR: 1}, github.PRFile{
		Filename: "main.go",
		Patch:    singleAddPatch,
	}, p.rateLimiter.Get("a/b"))

	require.Zero(t, count)
	require.Empty(t, comments.reviews)
}

func TestSuggestFile_PostFailureContinuesToNextLine(t *testing.T) {

	comments := &commentSpy{failFirst: true}
	improver := &improverStub{respond: structuredResponse}
	p := newTestProcessor(nil, comments, improver, nil)

	patch := "@@ -1,1 +1,3 @@\n+first\n+second"

	count, _ := p.suggestFile(context.Background(), Job{Repo: "a/b", PR: 1}, github.PRFile{
		Filename: "main.go",
		Patch:    patch,
	}, p.rateLimiter.Get("a/b"))

	require.Equal(t, 1, count)
	require.Len(t, comments.reviews, 1)
	require.Equal(t, []string{"first", "second"}, improver.inputs)
}

func TestSuggestFile_DuplicateSuggestionPostedOnce(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: structuredResponse}
	p := newTestProcessor(nil, comments, improver, nil)

	job := Job{Repo: "a/b", PR: 1, CommitID: "abc"}
	file := github.PRFile{Filename: "main.go", Patch: singleAddPatch}
	limiter := p.rateLimiter.Get(job.Repo)

	first, _ := p.suggestFile(context.Background(), job, file, limiter)
	second, _ := p.suggestFile(context.Background(), job, file, limiter)

	require.Equal(t, 1, first)
	require.Zero(t, second)
	require.Len(t, comments.reviews, 1)
}

func TestSuggestFile_SinkPanicYieldsZero(t *testing.T) {

	comments := &commentSpy{panicOnPost: true}
	improver := &improverStub{respond: structuredResponse}
	p := newTestProcessor(nil, comments, improver, nil)

	count, blocked := p.suggestFile(context.Background(), Job{Repo: "a/b", PR: 1}, github.PRFile{
		Filename: "main.go",
		Patch:    singleAddPatch,
	}, p.rateLimiter.Get("a/b"))

	require.Zero(t, count)
	require.Empty(t, blocked)
}

func TestHandle_PostsSummaryComment(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: structuredResponse}
	client := &clientStub{files: []github.PRFile{
		{Filename: "main.go", Patch: singleAddPatch},
	}}
	p := newTestProcessor(client, comments, improver, nil)

	p.handle(context.Background(), Job{Repo: "acme/repo", PR: 7, CommitID: "abc"})

	require.Len(t, comments.reviews, 1)
	require.Len(t, comments.issueBodies, 1)
	require.Contains(t, comments.issueBodies[0], "Files reviewed: 1")
	require.Contains(t, comments.issueBodies[0], "Suggestions posted: 1")
}

func TestHandle_NoReviewableFiles(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: structuredResponse}
	p := newTestProcessor(&clientStub{}, comments, improver, nil)

	p.handle(context.Background(), Job{Repo: "acme/repo", PR: 7})

	require.Empty(t, comments.reviews)
	require.Empty(t, comments.issueBodies)
}

func TestHandle_FetchFailureIsSilent(t *testing.T) {

	comments := &commentSpy{}
	improver := &improverStub{respond: structuredResponse}
	client := &clientStub{err: errors.New("github down")}
	p := newTestProcessor(client, comments, improver, nil)

	p.handle(context.Background(), Job{Repo: "acme/repo", PR: 7})

	require.Empty(t, comments.reviews)
	require.Empty(t, improver.inputs)
}

func TestHandle_BudgetBlockStopsOracle(t *testing.T) {

	store := budget.NewMemoryStore()
	guard := budget.NewGuard(true, 100, 0.5, store)
	require.NoError(t, guard.Record(context.Background(), "acme/repo", 7, 1.0, time.Now()))

	comments := &commentSpy{}
	improver := &improverStub{respond: structuredResponse}
	client := &clientStub{files: []github.PRFile{
		{Filename: "main.go", Patch: singleAddPatch},
	}}
	p := newTestProcessor(client, comments, improver, guard)

	p.handle(context.Background(), Job{Repo: "acme/repo", PR: 7})

	require.Empty(t, improver.inputs)
	require.Empty(t, comments.reviews)

	var found bool
	for _, b := range comments.issueBodies {
		if strings.Contains(b, "Budget guard triggered") {
			found = true
		}
	}
	require.True(t, found)
}

func TestFormatSummary_NoSuggestions(t *testing.T) {

	body := formatSummary(3, 0)

	require.Contains(t, body, "No improvements suggested")
}
