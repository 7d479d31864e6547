// Package update decides whether an installed application should be updated.
package update

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"storecheck/pkg/appenv"
	"storecheck/pkg/errors"
	"storecheck/pkg/logging"
	"storecheck/pkg/policy"
	"storecheck/pkg/provider"
	"storecheck/pkg/version"
)

// Engine runs update decisions. It holds no per-call state and is safe for concurrent use
// as long as Defaults and Registry are not modified while decisions are running.
type Engine struct {
	Env      appenv.Environment
	Registry *provider.Registry
	Resolver LatestResolver
	Defaults Defaults
	Logger   *logging.Logger
}

// NewEngine creates an engine. A nil resolver falls back to the registry entry named by
// defaults.Provider.
func NewEngine(env appenv.Environment, reg *provider.Registry, resolver LatestResolver, defaults Defaults, logger *logging.Logger) *Engine {
	if resolver == nil {
		if defaults.Provider.Name != "" && reg != nil {
			resolver = RegistryResolver(reg, defaults.Provider.Name)
		} else {
			resolver = noResolver
		}
	}

	return &Engine{
		Env:      env,
		Registry: reg,
		Resolver: resolver,
		Defaults: defaults,
		Logger:   logger,
	}
}

// Decide compares the current version against the latest one.
//
// With IgnoreErrors (the default) any failure is logged and Decide returns (nil, nil);
// callers must treat a nil Result as "could not determine". Otherwise the failure is
// returned and can be matched with errors.Is against the sentinels in pkg/errors.
func (e *Engine) Decide(ctx context.Context, opts Options) (*Result, error) {
	m := e.Defaults.merge(opts)

	res, err := e.decide(ctx, m)
	return policy.Apply(policy.Policy{IgnoreErrors: m.ignoreErrors, Logger: e.Logger}, "update check", res, err)
}

func (e *Engine) decide(ctx context.Context, m merged) (*Result, error) {
	if m.depth < 0 {
		return nil, errors.NewValidationError(fmt.Sprintf("depth must not be negative, got %d", m.depth))
	}

	current, err := e.currentVersion(ctx, m)
	if err != nil {
		return nil, err
	}

	latest := provider.Result{}
	if m.latestVersion != nil {
		latest.Version = *m.latestVersion
	} else {
		found, err := e.latestVersion(ctx, m)
		if err != nil {
			return nil, err
		}
		latest = found
	}

	normCurrent := version.Normalize(current, m.depth)
	normLatest := version.Normalize(latest.Version, m.depth)

	needed, err := version.IsNewer(normLatest, normCurrent)
	if err != nil {
		return nil, err
	}

	logging.OrNoOp(e.Logger).Debug("Compared versions",
		"current", current, "latest", latest.Version, "depth", m.depth, "needed", needed)

	return &Result{
		IsNeeded:          needed,
		StoreURL:          latest.StoreURL,
		CurrentVersion:    current,
		LatestVersion:     latest.Version,
		LatestReleaseDate: latest.ReleaseDate,
	}, nil
}

func (e *Engine) currentVersion(ctx context.Context, m merged) (string, error) {
	if m.currentVersion != nil {
		return *m.currentVersion, nil
	}
	if e.Env == nil {
		return "", errors.NewEnvironmentError("current version is not set and no environment is configured", nil)
	}

	v, err := e.Env.CurrentVersion(ctx)
	if err != nil {
		if stderrors.Is(err, errors.ErrEnvironment) {
			return "", err
		}
		return "", errors.NewEnvironmentError("failed to read current version", err)
	}
	return v, nil
}

// latestVersion runs the provider paths. A custom provider runs first; a named provider
// runs after it and its values replace the custom provider's. The resolver only runs when
// neither produced a version and contributes no store URL.
func (e *Engine) latestVersion(ctx context.Context, m merged) (provider.Result, error) {
	var latest provider.Result

	if m.provider.Custom != nil {
		res, err := runProvider(ctx, m.provider.Custom, "custom", m.lookup)
		if err != nil {
			return provider.Result{}, err
		}
		latest = *res
	}

	if m.provider.Name != "" {
		if p, ok := e.Registry.Lookup(m.provider.Name); ok {
			res, err := runProvider(ctx, p, m.provider.Name, m.lookup)
			if err != nil {
				return provider.Result{}, err
			}
			latest = *res
		}
	}

	if latest.Version == "" {
		logging.OrNoOp(e.Logger).Debug("No provider produced a version, using resolver", "provider", m.provider.String())

		v, err := e.Resolver(ctx, m.options())
		if err != nil {
			return provider.Result{}, err
		}
		latest.Version = v
	}
	return latest, nil
}

// runProvider treats a nil result from a provider that swallowed its error as a failure
func runProvider(ctx context.Context, p provider.Provider, name string, lookup provider.LookupOptions) (*provider.Result, error) {
	res, err := p.GetVersion(ctx, lookup)
	if err != nil {
		return nil, fmt.Errorf("provider %s: %w", name, err)
	}
	if res == nil {
		return nil, errors.NewParseError("provider "+name+" returned no version", "").
			WithContext("provider", name)
	}

	found := *res
	found.Version = strings.TrimSpace(found.Version)
	return &found, nil
}
