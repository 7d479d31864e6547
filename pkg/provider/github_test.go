package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	checkerrors "storecheck/pkg/errors"
)

func newGitHubServer(t *testing.T, status int, body string, gotAuth *string) *GitHubProvider {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/example/app/releases/latest" {
			http.NotFound(w, r)
			return
		}
		if gotAuth != nil {
			*gotAuth = r.Header.Get("Authorization")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	p := NewGitHub("example", "app", nil)
	p.APIURL = server.URL
	p.Client = server.Client()
	return p
}

func TestGitHubGetVersion(t *testing.T) {
	body := `{"tag_name":"v2.8.1","html_url":"https://github.com/example/app/releases/tag/v2.8.1","published_at":"2024-06-01T12:00:00Z"}`
	p := newGitHubServer(t, http.StatusOK, body, nil)

	res, err := p.GetVersion(context.Background(), LookupOptions{IgnoreErrors: boolPtr(false)})
	require.NoError(t, err)

	assert.Equal(t, "2.8.1", res.Version)
	assert.Equal(t, "https://github.com/example/app/releases/tag/v2.8.1", res.StoreURL)
	require.NotNil(t, res.ReleaseDate)
	assert.Equal(t, 2024, res.ReleaseDate.Year())
}

func TestGitHubSendsToken(t *testing.T) {
	var auth string
	p := newGitHubServer(t, http.StatusOK, `{"tag_name":"1.0.0"}`, &auth)
	p.Token = "ghp_example"

	res, err := p.GetVersion(context.Background(), LookupOptions{IgnoreErrors: boolPtr(false)})
	require.NoError(t, err)
	assert.Equal(t, "Bearer ghp_example", auth)
	assert.Nil(t, res.ReleaseDate)
}

func TestGitHubErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
	}{
		{"rate limited", http.StatusForbidden, `{"message":"API rate limit exceeded"}`, checkerrors.ErrTransport},
		{"invalid json", http.StatusOK, `not json`, checkerrors.ErrParse},
		{"empty tag", http.StatusOK, `{"tag_name":""}`, checkerrors.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newGitHubServer(t, tt.status, tt.body, nil)

			_, err := p.GetVersion(context.Background(), LookupOptions{IgnoreErrors: boolPtr(false)})
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
		})
	}
}

func TestGitHubMissingRepo(t *testing.T) {
	p := NewGitHub("", "", nil)

	_, err := p.GetVersion(context.Background(), LookupOptions{IgnoreErrors: boolPtr(false)})
	require.Error(t, err)

	var checkErr *checkerrors.CheckError
	require.True(t, errors.As(err, &checkErr))
	assert.Equal(t, checkerrors.ErrTypeConfig, checkErr.Type)
}
