// internal/common/auth/github_test.go
package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"package-directory/internal/common/errors"

	"github.com/stretchr/testify/assert"
)

func TestVerifyToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user", r.URL.Path)
		assert.Equal(t, "Bearer valid-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 583231, "login": "octocat"}`))
	}))
	defer srv.Close()

	client := NewGitHubClient(srv.URL, time.Second)
	ident, err := client.VerifyToken(context.Background(), "valid-token")

	assert.NoError(t, err)
	assert.Equal(t, "583231", ident.ID)
	assert.Equal(t, "octocat", ident.Username)
}

func TestVerifyToken_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message": "Bad credentials"}`))
	}))
	defer srv.Close()

	client := NewGitHubClient(srv.URL, time.Second)
	ident, err := client.VerifyToken(context.Background(), "expired-token")

	assert.Nil(t, ident)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthenticated))
}

func TestVerifyToken_EmptyToken(t *testing.T) {
	client := NewGitHubClient("https://api.example.com", time.Second)

	ident, err := client.VerifyToken(context.Background(), "")

	assert.Nil(t, ident)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthenticated))
}

func TestVerifyToken_ProviderDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewGitHubClient(srv.URL, time.Second)
	ident, err := client.VerifyToken(context.Background(), "any-token")

	assert.Nil(t, ident)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUnauthenticated))
}
