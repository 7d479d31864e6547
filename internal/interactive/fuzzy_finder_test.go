package interactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibleRows(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		choices  int
		expected int
	}{
		{"default", "", 50, defaultVisibleRows},
		{"default shrinks to choices", "", 5, 5},
		{"configured", "12", 50, 12},
		{"configured shrinks to choices", "12", 3, 3},
		{"at cap", "20", 50, 20},
		{"above cap", "21", 50, maxVisibleRows},
		{"zero is invalid", "0", 50, defaultVisibleRows},
		{"negative is invalid", "-4", 50, defaultVisibleRows},
		{"not a number", "tall", 50, defaultVisibleRows},
		{"no choices keeps configured", "6", 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(SelectorHeightEnv, tt.envValue)
			assert.Equal(t, tt.expected, visibleRows(tt.choices))
		})
	}
}
