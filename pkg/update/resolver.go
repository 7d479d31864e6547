package update

import (
	"context"

	"storecheck/pkg/errors"
	"storecheck/pkg/provider"
)

// LatestResolver is the fallback that finds the latest version when no provider path
// produced one.
type LatestResolver func(ctx context.Context, opts Options) (string, error)

// RegistryResolver looks the latest version up with the provider registered as name.
func RegistryResolver(reg *provider.Registry, name string) LatestResolver {
	return func(ctx context.Context, opts Options) (string, error) {
		p, ok := reg.Lookup(name)
		if !ok {
			return "", errors.NewConfigError("no provider registered as "+name, nil).
				WithContext("provider", name)
		}

		res, err := p.GetVersion(ctx, opts.Lookup)
		if err != nil {
			return "", err
		}
		if res == nil || res.Version == "" {
			return "", errors.NewParseError(name+" returned no version", "")
		}
		return res.Version, nil
	}
}

// noResolver is used when the engine has neither a resolver nor a default provider
func noResolver(ctx context.Context, opts Options) (string, error) {
	return "", errors.NewConfigError("latest version is unknown and no provider is configured", nil)
}
