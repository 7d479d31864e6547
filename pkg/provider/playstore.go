package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"storecheck/pkg/appenv"
	"storecheck/pkg/errors"
	"storecheck/pkg/logging"
	"storecheck/pkg/policy"
)

const playStoreBaseURL = "https://play.google.com/store/apps/details"

var (
	playStoreVersionPattern = regexp.MustCompile(`Current Version.+?>([\d.]+)</span>`)
	playStoreUpdatedPattern = regexp.MustCompile(`Updated.+?>([ ,0-9a-zA-Z]+)</span>`)

	// Layouts seen in the "Updated" field across store locales
	playStoreDateLayouts = []string{"January 2, 2006", "Jan 2, 2006", "2 January 2006", "2 Jan 2006"}
)

// PlayStoreProvider scrapes the Google Play details page of an app.
type PlayStoreProvider struct {
	BaseURL string
	Client  *http.Client
	Env     appenv.Environment
	Logger  *logging.Logger
}

// NewPlayStore creates a Play Store provider that resolves the package name from env
func NewPlayStore(env appenv.Environment, logger *logging.Logger) *PlayStoreProvider {
	return &PlayStoreProvider{
		BaseURL: playStoreBaseURL,
		Client:  NewHTTPClient(DefaultHTTPTimeout),
		Env:     env,
		Logger:  logger,
	}
}

// StoreURL builds the canonical details page link for a package
func (p *PlayStoreProvider) StoreURL(packageID, language string) string {
	if language == "" {
		language = "en"
	}
	q := url.Values{}
	q.Set("id", packageID)
	q.Set("hl", language)
	return p.BaseURL + "?" + q.Encode()
}

func (p *PlayStoreProvider) GetVersion(ctx context.Context, opts LookupOptions) (*Result, error) {
	res, err := p.lookup(ctx, opts)
	return policy.Apply(policy.Policy{IgnoreErrors: opts.ignoreErrors(), Logger: p.Logger}, PlayStore+" lookup", res, err)
}

func (p *PlayStoreProvider) lookup(ctx context.Context, opts LookupOptions) (*Result, error) {
	packageID, err := resolvePackageID(ctx, p.Env, opts)
	if err != nil {
		return nil, err
	}

	storeURL := p.StoreURL(packageID, opts.Language)
	logging.OrNoOp(p.Logger).Debug("Fetching Play Store page", "url", storeURL)

	body, err := fetch(ctx, p.Client, storeURL, "text/html")
	if err != nil {
		return nil, err
	}
	text := string(body)

	match := playStoreVersionPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, errors.NewParseError("your app's play store page doesn't seem to have latest app version info", text).
			WithContext("url", storeURL)
	}

	return &Result{
		Version:     strings.TrimSpace(match[1]),
		StoreURL:    storeURL,
		ReleaseDate: parsePlayStoreDate(text),
	}, nil
}

// parsePlayStoreDate returns nil when the "Updated" field is missing or unreadable
func parsePlayStoreDate(text string) *time.Time {
	match := playStoreUpdatedPattern.FindStringSubmatch(text)
	if match == nil {
		return nil
	}

	raw := strings.TrimSpace(match[1])
	for _, layout := range playStoreDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// resolvePackageID prefers the explicit option over the environment
func resolvePackageID(ctx context.Context, env appenv.Environment, opts LookupOptions) (string, error) {
	if id := strings.TrimSpace(opts.PackageID); id != "" {
		return id, nil
	}
	if env == nil {
		return "", errors.NewEnvironmentError("package identifier is not configured", nil)
	}

	id, err := env.PackageIdentifier(ctx)
	if err != nil {
		return "", fmt.Errorf("resolve package identifier: %w", err)
	}
	return id, nil
}
