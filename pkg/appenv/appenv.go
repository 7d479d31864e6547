// Package appenv reports the installed application's own version and package identifier.
package appenv

import (
	"context"
	"os"
	"strings"

	"storecheck/pkg/errors"
)

const (
	// CurrentVersionEnv names the variable read by Process for the installed version
	CurrentVersionEnv = "STORECHECK_APP_CURRENT_VERSION"
	// PackageIDEnv names the variable read by Process for the package identifier
	PackageIDEnv = "STORECHECK_APP_PACKAGE_ID"
)

// Environment describes the installed application.
type Environment interface {
	CurrentVersion(ctx context.Context) (string, error)
	PackageIdentifier(ctx context.Context) (string, error)
}

// Static is an Environment with fixed values; an empty field is reported as unavailable.
type Static struct {
	Version   string
	PackageID string
}

func (s Static) CurrentVersion(ctx context.Context) (string, error) {
	if strings.TrimSpace(s.Version) == "" {
		return "", errors.NewEnvironmentError("current version is not configured", nil)
	}
	return s.Version, nil
}

func (s Static) PackageIdentifier(ctx context.Context) (string, error) {
	if strings.TrimSpace(s.PackageID) == "" {
		return "", errors.NewEnvironmentError("package identifier is not configured", nil)
	}
	return s.PackageID, nil
}

// Process reads the installed version and package identifier from the process environment
// on every call.
type Process struct{}

func (Process) CurrentVersion(ctx context.Context) (string, error) {
	v := strings.TrimSpace(os.Getenv(CurrentVersionEnv))
	if v == "" {
		return "", errors.NewEnvironmentError(CurrentVersionEnv+" is not set", nil)
	}
	return v, nil
}

func (Process) PackageIdentifier(ctx context.Context) (string, error) {
	id := strings.TrimSpace(os.Getenv(PackageIDEnv))
	if id == "" {
		return "", errors.NewEnvironmentError(PackageIDEnv+" is not set", nil)
	}
	return id, nil
}

// Chain tries each Environment in order and returns the first value found. It stops once
// ctx is done.
type Chain []Environment

func (c Chain) CurrentVersion(ctx context.Context) (string, error) {
	return c.first(ctx, Environment.CurrentVersion, "current version")
}

func (c Chain) PackageIdentifier(ctx context.Context) (string, error) {
	return c.first(ctx, Environment.PackageIdentifier, "package identifier")
}

func (c Chain) first(ctx context.Context, get func(Environment, context.Context) (string, error), what string) (string, error) {
	var lastErr error
	for _, env := range c {
		if env == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", errors.NewEnvironmentError(what+" lookup cancelled", err)
		}
		v, err := get(env, ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
	}
	return "", errors.NewEnvironmentError(what+" is unavailable", lastErr)
}
