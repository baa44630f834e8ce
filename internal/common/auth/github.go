// internal/common/auth/github.go
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"package-directory/internal/common/errors"
	httpx "package-directory/internal/common/http"
)

// Identity is the authenticated caller as seen by the intake boundary. The
// ID is the identity provider's opaque identifier, not anything this service
// assigns.
type Identity struct {
	ID       string
	Username string
}

// GitHubClient verifies bearer tokens by fetching the token owner's profile
// from the identity provider. Token exchange itself happens elsewhere; this
// client only answers "who is presenting this token".
type GitHubClient struct {
	baseURL    string
	httpClient *httpx.Client
}

// profile is the subset of the provider's /user response we consume.
type profile struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
}

// NewGitHubClient creates a client against the given API base URL.
func NewGitHubClient(baseURL string, timeout time.Duration) *GitHubClient {
	return &GitHubClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpx.NewClient(timeout),
	}
}

// VerifyToken resolves a bearer token to the identity that owns it.
// Returns Unauthenticated for any token the provider rejects.
func (c *GitHubClient) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, errors.NewUnauthenticatedError("empty bearer token")
	}

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.DoWithContext(ctx, req)
	if err != nil {
		return nil, errors.NewUnauthenticatedError(fmt.Sprintf("profile fetch failed: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.NewUnauthenticatedError(
			fmt.Sprintf("provider returned %d: %s", resp.StatusCode, string(body)))
	}

	var p profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errors.NewUnauthenticatedError(fmt.Sprintf("decode profile: %v", err))
	}

	return &Identity{
		ID:       fmt.Sprintf("%d", p.ID),
		Username: p.Login,
	}, nil
}
