package update

import (
	"time"

	"storecheck/pkg/provider"
	"storecheck/pkg/version"
)

// Options configures one decision. Nil pointer fields are unset and fall back to the
// engine's Defaults.
type Options struct {
	// CurrentVersion overrides the installed version reported by the environment
	CurrentVersion *string

	// LatestVersion overrides the provider lookup entirely
	LatestVersion *string

	// Depth is the number of leading components compared; version.DepthUnbounded compares all
	Depth *int

	// IgnoreErrors logs failures and returns a nil Result instead of an error
	IgnoreErrors *bool

	// Provider selects where the latest version comes from
	Provider provider.Ref

	// Lookup is passed to the provider; empty fields take the Defaults' values
	Lookup provider.LookupOptions
}

// Defaults are the engine-wide option values a caller's Options are merged over.
type Defaults struct {
	Depth        int
	IgnoreErrors bool
	Provider     provider.Ref
	Lookup       provider.LookupOptions
}

// BaseDefaults compares at full precision and ignores errors
func BaseDefaults() Defaults {
	return Defaults{
		Depth:        version.DepthUnbounded,
		IgnoreErrors: true,
	}
}

// Result is the outcome of a decision. CurrentVersion and LatestVersion are the
// strings as given or found, before normalization.
type Result struct {
	IsNeeded          bool       `json:"isNeeded"`
	StoreURL          string     `json:"storeUrl"`
	CurrentVersion    string     `json:"currentVersion"`
	LatestVersion     string     `json:"latestVersion"`
	LatestReleaseDate *time.Time `json:"latestReleaseDate,omitempty"`
}

// merged is Options after applying Defaults; every field is set
type merged struct {
	currentVersion *string
	latestVersion  *string
	depth          int
	ignoreErrors   bool
	provider       provider.Ref
	lookup         provider.LookupOptions
}

func (d Defaults) merge(opts Options) merged {
	m := merged{
		currentVersion: opts.CurrentVersion,
		latestVersion:  opts.LatestVersion,
		depth:          d.Depth,
		ignoreErrors:   d.IgnoreErrors,
		provider:       d.Provider,
		lookup:         d.Lookup,
	}

	if opts.Depth != nil {
		m.depth = *opts.Depth
	}
	if opts.IgnoreErrors != nil {
		m.ignoreErrors = *opts.IgnoreErrors
	}
	if !opts.Provider.IsZero() {
		m.provider = opts.Provider
	}

	if opts.Lookup.PackageID != "" {
		m.lookup.PackageID = opts.Lookup.PackageID
	}
	if opts.Lookup.Country != "" {
		m.lookup.Country = opts.Lookup.Country
	}
	if opts.Lookup.Language != "" {
		m.lookup.Language = opts.Lookup.Language
	}
	if opts.Lookup.IgnoreErrors != nil {
		m.lookup.IgnoreErrors = opts.Lookup.IgnoreErrors
	}

	// Providers share the engine's policy unless told otherwise
	if m.lookup.IgnoreErrors == nil {
		ignore := m.ignoreErrors
		m.lookup.IgnoreErrors = &ignore
	}
	return m
}

// options converts back to Options for a LatestResolver
func (m merged) options() Options {
	depth := m.depth
	ignore := m.ignoreErrors
	return Options{
		CurrentVersion: m.currentVersion,
		LatestVersion:  m.latestVersion,
		Depth:          &depth,
		IgnoreErrors:   &ignore,
		Provider:       m.provider,
		Lookup:         m.lookup,
	}
}
