package interactive

import (
	"os"
	"strconv"

	"storecheck/pkg/logging"

	"github.com/ktr0731/go-fuzzyfinder"
)

// SelectorHeightEnv sets how many rows the picker shows
const SelectorHeightEnv = "STORECHECK_SELECTOR_HEIGHT"

const (
	defaultVisibleRows = 8
	maxVisibleRows     = 20

	// prompt, header, border and spacing around the list
	pickerChromeRows = 5
)

// visibleRows is the configured row count, never more than there are choices
func visibleRows(choiceCount int) int {
	rows := defaultVisibleRows
	if raw := os.Getenv(SelectorHeightEnv); raw != "" {
		rows = parseRows(raw)
	}

	if choiceCount > 0 && rows > choiceCount {
		return choiceCount
	}
	return rows
}

func parseRows(raw string) int {
	rows, err := strconv.Atoi(raw)
	switch {
	case err != nil || rows < 1:
		logging.LogWarn("Ignoring %s=%q, showing %d rows", SelectorHeightEnv, raw, defaultVisibleRows)
		return defaultVisibleRows
	case rows > maxVisibleRows:
		logging.LogWarn("%s=%d exceeds %d rows, capping", SelectorHeightEnv, rows, maxVisibleRows)
		return maxVisibleRows
	default:
		return rows
	}
}

// pick runs the fuzzy finder over count entries
func pick(items interface{}, count int, label func(i int) string, header string, preview func(i, w, h int) string) (int, error) {
	return fuzzyfinder.Find(items,
		label,
		fuzzyfinder.WithPromptString("› provider: "),
		fuzzyfinder.WithHeader(header),
		fuzzyfinder.WithCursorPosition(fuzzyfinder.CursorPositionTop),
		fuzzyfinder.WithMode(fuzzyfinder.ModeCaseInsensitive),
		fuzzyfinder.WithHeight(visibleRows(count)+pickerChromeRows),
		fuzzyfinder.WithHorizontalAlignment(fuzzyfinder.AlignLeft),
		fuzzyfinder.WithBorder(),
		fuzzyfinder.WithPreviewWindow(preview),
	)
}
