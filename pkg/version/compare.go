package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"storecheck/pkg/errors"
)

// parseStrict accepts MAJOR.MINOR.PATCH with optional prerelease/build metadata and a
// single leading "v". Anything else, including a fourth numeric component, is malformed.
func parseStrict(v string) (*semver.Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(v), "v")
	parsed, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return nil, errors.NewMalformedVersionError(v, err)
	}
	return parsed, nil
}

// Compare returns -1, 0 or 1 as a is older than, equal to, or newer than b.
func Compare(a, b string) (int, error) {
	av, err := parseStrict(a)
	if err != nil {
		return 0, err
	}
	bv, err := parseStrict(b)
	if err != nil {
		return 0, err
	}
	return av.Compare(bv), nil
}

// IsNewer reports whether latest is strictly greater than current.
func IsNewer(latest, current string) (bool, error) {
	cmp, err := Compare(latest, current)
	if err != nil {
		return false, err
	}
	return cmp > 0, nil
}
