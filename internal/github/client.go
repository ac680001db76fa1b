package github

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"ai-patch-suggester/internal/config"
	"ai-patch-suggester/internal/observability"
	"ai-patch-suggester/internal/retry"

	"github.com/golang-jwt/jwt/v4"
)

const defaultAPIBase = "https://api.github.com"

// AppClient talks to the GitHub REST API as a GitHub App installation.
type AppClient struct {
	cfg    *config.Config
	logger *observability.Logger
	http   *http.Client
	cache  *tokenCache
	base   string
}

func NewClient(cfg *config.Config, logger *observability.Logger) *AppClient {
	return &AppClient{
		cfg:    cfg,
		logger: logger,
		http:   &http.Client{Timeout: 15 * time.Second},
		cache:  &tokenCache{},
		base:   defaultAPIBase,
	}
}

// token returns a cached installation token, minting one via the App JWT
// when the cache is cold or expired.
func (c *AppClient) token(ctx context.Context) (string, error) {

	if t, ok := c.cache.Get(); ok {
		return t, nil
	}

	appJWT, err := c.createJWT()
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf(
		"%s/app/installations/%s/access_tokens",
		c.base, c.cfg.GithubInstallationID,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", url, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+appJWT)
	req.Header.Set("Accept", "application/vnd.github+json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return "", fmt.Errorf("github token status %d: %s", res.StatusCode, string(msg))
	}

	var r struct {
		Token string `json:"token"`
	}

	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if r.Token == "" {
		return "", fmt.Errorf("empty installation token")
	}

	// installation tokens live for an hour
	c.cache.Set(r.Token, 50*time.Minute)

	return r.Token, nil
}

func (c *AppClient) GetPRFiles(ctx context.Context, repo string, pr int) ([]PRFile, error) {

	var files []PRFile

	err := retry.Do(ctx, 3, 500*time.Millisecond, func() error {

		token, err := c.token(ctx)
		if err != nil {
			return err
		}

		url := fmt.Sprintf("%s/repos/%s/pulls/%d/files", c.base, repo, pr)

		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return fmt.Errorf("build files request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/vnd.github+json")

		res, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer res.Body.Close()

		if res.StatusCode == 403 {
			return fmt.Errorf("rate limited")
		}
		if res.StatusCode < 200 || res.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
			return fmt.Errorf("github files status %d: %s", res.StatusCode, string(msg))
		}

		return json.NewDecoder(res.Body).Decode(&files)
	})
	if err != nil {
		return nil, err
	}

	var result []PRFile
	for _, f := range files {
		if IsReviewable(f) {
			result = append(result, f)
		}
	}

	c.logger.Info("files fetched",
		"total", len(files),
		"reviewable", len(result),
	)

	return result, nil
}

func (c *AppClient) GetPRDiff(ctx context.Context, repo string, pr int) (string, error) {

	token, err := c.token(ctx)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/repos/%s/pulls/%d", c.base, repo, pr)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("build diff request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github.diff")

	res, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != 200 {
		return "", fmt.Errorf("github status: %d", res.StatusCode)
	}

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("read diff response: %w", err)
	}

	return string(b), nil
}

func (c *AppClient) CreateReviewComment(ctx context.Context, repo string, pr int, comment ReviewComment) error {

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/repos/%s/pulls/%d/comments", c.base, repo, pr)

	return postJSON(ctx, c.http, token, url, comment)
}

func (c *AppClient) CreateIssueComment(ctx context.Context, repo string, pr int, body string) error {

	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/repos/%s/issues/%d/comments", c.base, repo, pr)

	return postJSON(ctx, c.http, token, url, map[string]string{"body": body})
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}

	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("invalid pem")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err == nil {
		return key, nil
	}

	pkcs8, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, err
	}

	privateKey, ok := pkcs8.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("pkcs8 key is not RSA")
	}

	return privateKey, nil
}

func (c *AppClient) createJWT() (string, error) {

	key, err := loadPrivateKey(c.cfg.GithubPrivateKeyPath)
	if err != nil {
		return "", err
	}

	now := time.Now()

	claims := jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		ExpiresAt: jwt.NewNumericDate(now.Add(9 * time.Minute)),
		Issuer:    c.cfg.GithubAppID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)

	return token.SignedString(key)
}
