package interactive

import (
	"fmt"
	"sort"
	"strings"

	"storecheck/pkg/colors"

	"github.com/fatih/color"
)

// ProviderChoice is one entry of the provider picker
type ProviderChoice struct {
	Name        string
	Description string
	// Configured is false when the provider is missing settings it needs
	Configured bool
	// Settings shown in the preview, e.g. "github.repo" -> "example/app"
	Settings map[string]string
}

// ProviderSelector picks the provider for an update check.
type ProviderSelector interface {
	SelectProvider(choices []ProviderChoice) (*ProviderChoice, error)
}

// FuzzyProviderSelector selects with the fuzzy finder.
type FuzzyProviderSelector struct{}

func (s *FuzzyProviderSelector) SelectProvider(choices []ProviderChoice) (*ProviderChoice, error) {
	return SelectProvider(choices, "Select version provider")
}

// SelectProvider shows the picker and returns the chosen entry
func SelectProvider(choices []ProviderChoice, title string) (*ProviderChoice, error) {
	if len(choices) == 0 {
		return nil, fmt.Errorf("no providers available")
	}

	idx, err := pick(choices, len(choices),
		func(i int) string {
			return formatChoice(choices[i])
		},
		fmt.Sprintf("%s (%d available)", title, len(choices)),
		func(i, w, h int) string {
			if i < 0 || i >= len(choices) {
				return ""
			}
			return previewChoice(choices[i])
		},
	)
	if err != nil {
		return nil, fmt.Errorf("provider selection cancelled: %w", err)
	}

	return &choices[idx], nil
}

func formatChoice(c ProviderChoice) string {
	if c.Description == "" {
		return c.Name
	}
	return fmt.Sprintf("%s (%s)", c.Name, c.Description)
}

func previewChoice(c ProviderChoice) string {
	status := colors.ColorSuccess("✓ Ready")
	if !c.Configured {
		status = colors.ColorWarning("⚠ Needs configuration")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", color.New(color.Bold).Sprint(c.Name))
	if c.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", c.Description)
	}
	fmt.Fprintf(&b, "Status: %s\n", status)

	if len(c.Settings) > 0 {
		b.WriteString("\nSettings:\n")
		for _, key := range sortedKeys(c.Settings) {
			value := c.Settings[key]
			if value == "" {
				value = colors.ColorError("<not set>")
			}
			fmt.Fprintf(&b, "  %s: %s\n", colors.ColorHeader("%s", key), value)
		}
	}
	return b.String()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
