// Package provider defines the source of "latest version" information for an app store
// and the built-in providers.
package provider

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"storecheck/pkg/errors"
)

// Built-in provider names
const (
	PlayStore = "playStore"
	AppStore  = "appStore"
	GitHub    = "github"
	SSM       = "ssm"
	S3        = "s3"
)

// Result is what a provider found. It is not modified after being returned.
type Result struct {
	Version     string
	StoreURL    string
	ReleaseDate *time.Time
}

// LookupOptions are the merged options a provider receives for one lookup.
type LookupOptions struct {
	// PackageID overrides the environment's package identifier
	PackageID string

	// Country is the two-letter store country (appStore)
	Country string

	// Language is the store page language (playStore)
	Language string

	// IgnoreErrors is the provider's own error policy; nil means "same as the caller"
	IgnoreErrors *bool
}

// ignoreErrors resolves the provider-layer policy; providers default to ignoring
func (o LookupOptions) ignoreErrors() bool {
	if o.IgnoreErrors == nil {
		return true
	}
	return *o.IgnoreErrors
}

// Provider looks up the latest published version of an application.
//
// A failed lookup returns a transport or parse error, or, when the provider ignores its
// own errors, (nil, nil).
type Provider interface {
	GetVersion(ctx context.Context, opts LookupOptions) (*Result, error)
}

// Func adapts an ordinary function to a Provider.
type Func func(ctx context.Context, opts LookupOptions) (*Result, error)

func (f Func) GetVersion(ctx context.Context, opts LookupOptions) (*Result, error) {
	return f(ctx, opts)
}

// Ref selects the provider for a decision: a caller-supplied provider, a registry name,
// or both. When both are set the custom provider runs first and the named provider's
// result replaces it.
type Ref struct {
	Name   string
	Custom Provider
}

// Named references a registered provider
func Named(name string) Ref {
	return Ref{Name: name}
}

// Custom references a caller-supplied provider
func Custom(p Provider) Ref {
	return Ref{Custom: p}
}

// IsZero reports whether the reference selects nothing
func (r Ref) IsZero() bool {
	return r.Name == "" && r.Custom == nil
}

// String names the reference for logs
func (r Ref) String() string {
	switch {
	case r.Custom != nil && r.Name != "":
		return "custom+" + r.Name
	case r.Custom != nil:
		return "custom"
	default:
		return r.Name
	}
}

// Registry maps provider names to providers. It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds or replaces a named provider
func (r *Registry) Register(name string, p Provider) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewValidationError("provider name cannot be empty")
	}
	if p == nil {
		return errors.NewValidationError("provider " + name + " cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
	return nil
}

// Lookup returns the provider registered under name
func (r *Registry) Lookup(name string) (Provider, bool) {
	if r == nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// Names returns the registered names in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
