package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"storecheck/pkg/appenv"
	"storecheck/pkg/errors"
	"storecheck/pkg/logging"
	"storecheck/pkg/policy"
)

const appStoreBaseURL = "https://itunes.apple.com"

type appStoreLookup struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		Version                   string `json:"version"`
		TrackViewURL              string `json:"trackViewUrl"`
		CurrentVersionReleaseDate string `json:"currentVersionReleaseDate"`
	} `json:"results"`
}

// AppStoreProvider queries the iTunes lookup API by bundle identifier.
type AppStoreProvider struct {
	BaseURL string
	Client  *http.Client
	Env     appenv.Environment
	Logger  *logging.Logger
}

// NewAppStore creates an App Store provider that resolves the bundle id from env
func NewAppStore(env appenv.Environment, logger *logging.Logger) *AppStoreProvider {
	return &AppStoreProvider{
		BaseURL: appStoreBaseURL,
		Client:  NewHTTPClient(DefaultHTTPTimeout),
		Env:     env,
		Logger:  logger,
	}
}

func (p *AppStoreProvider) lookupURL(bundleID, country string) string {
	base := strings.TrimSuffix(p.BaseURL, "/")
	if country != "" {
		base += "/" + url.PathEscape(strings.ToLower(country))
	}
	q := url.Values{}
	q.Set("bundleId", bundleID)
	return base + "/lookup?" + q.Encode()
}

func (p *AppStoreProvider) GetVersion(ctx context.Context, opts LookupOptions) (*Result, error) {
	res, err := p.lookup(ctx, opts)
	return policy.Apply(policy.Policy{IgnoreErrors: opts.ignoreErrors(), Logger: p.Logger}, AppStore+" lookup", res, err)
}

func (p *AppStoreProvider) lookup(ctx context.Context, opts LookupOptions) (*Result, error) {
	bundleID, err := resolvePackageID(ctx, p.Env, opts)
	if err != nil {
		return nil, err
	}

	lookupURL := p.lookupURL(bundleID, opts.Country)
	logging.OrNoOp(p.Logger).Debug("Querying App Store lookup", "url", lookupURL)

	body, err := fetch(ctx, p.Client, lookupURL, "application/json")
	if err != nil {
		return nil, err
	}

	var lookup appStoreLookup
	if err := json.Unmarshal(body, &lookup); err != nil {
		return nil, errors.NewParseError("app store lookup returned invalid JSON", string(body)).
			WithContext("url", lookupURL)
	}
	if len(lookup.Results) == 0 || lookup.Results[0].Version == "" {
		return nil, errors.NewParseError("app store lookup has no version for "+bundleID, string(body)).
			WithContext("url", lookupURL)
	}

	app := lookup.Results[0]
	res := &Result{
		Version:  strings.TrimSpace(app.Version),
		StoreURL: app.TrackViewURL,
	}
	if released, err := time.Parse(time.RFC3339, app.CurrentVersionReleaseDate); err == nil {
		res.ReleaseDate = &released
	}
	return res, nil
}
