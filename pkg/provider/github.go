package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"storecheck/pkg/errors"
	"storecheck/pkg/logging"
	"storecheck/pkg/policy"
)

const githubAPIURL = "https://api.github.com"

// GitHubRelease is the subset of the releases API payload the provider reads
type GitHubRelease struct {
	TagName     string    `json:"tag_name"`
	HTMLURL     string    `json:"html_url"`
	PublishedAt time.Time `json:"published_at"`
	Draft       bool      `json:"draft"`
	Prerelease  bool      `json:"prerelease"`
}

// GitHubProvider reads the latest published release of a repository.
type GitHubProvider struct {
	APIURL string
	Owner  string
	Repo   string
	Token  string
	Client *http.Client
	Logger *logging.Logger
}

// NewGitHub creates a provider for owner/repo
func NewGitHub(owner, repo string, logger *logging.Logger) *GitHubProvider {
	return &GitHubProvider{
		APIURL: githubAPIURL,
		Owner:  owner,
		Repo:   repo,
		Client: NewHTTPClient(3 * time.Second),
		Logger: logger,
	}
}

func (p *GitHubProvider) GetVersion(ctx context.Context, opts LookupOptions) (*Result, error) {
	res, err := p.lookup(ctx)
	return policy.Apply(policy.Policy{IgnoreErrors: opts.ignoreErrors(), Logger: p.Logger}, GitHub+" lookup", res, err)
}

func (p *GitHubProvider) lookup(ctx context.Context) (*Result, error) {
	if p.Owner == "" || p.Repo == "" {
		return nil, errors.NewConfigError("github provider needs an owner and a repo", nil)
	}

	releaseURL := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimSuffix(p.APIURL, "/"), p.Owner, p.Repo)
	logging.OrNoOp(p.Logger).Debug("Fetching latest GitHub release", "url", releaseURL)

	client := p.Client
	if p.Token != "" {
		client = withBearer(client, p.Token)
	}

	body, err := fetch(ctx, client, releaseURL, "application/vnd.github+json")
	if err != nil {
		return nil, err
	}

	var release GitHubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, errors.NewParseError("github release payload is not valid JSON", string(body))
	}

	version := strings.TrimPrefix(strings.TrimSpace(release.TagName), "v")
	if version == "" {
		return nil, errors.NewParseError("github release has no tag name", string(body))
	}

	res := &Result{
		Version:  version,
		StoreURL: release.HTMLURL,
	}
	if !release.PublishedAt.IsZero() {
		published := release.PublishedAt
		res.ReleaseDate = &published
	}
	return res, nil
}

// withBearer returns a copy of client that sends an Authorization header
func withBearer(client *http.Client, token string) *http.Client {
	if client == nil {
		client = sharedClient()
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	authed := *client
	authed.Transport = roundTripFunc(func(req *http.Request) (*http.Response, error) {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
		return base.RoundTrip(req)
	})
	return &authed
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
