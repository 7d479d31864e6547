package colors

import (
	"io"

	"github.com/fatih/color"
)

// Standardized color definitions for storecheck output

var (
	// Header/Section colors - bright yellow with bold for headers and section titles
	Header = color.New(color.FgHiYellow, color.Bold)

	// Data colors - bright cyan for versions, store URLs and provider names
	Data = color.New(color.FgHiCyan)

	// Success message colors - bright green with bold for "up to date"
	Success = color.New(color.FgHiGreen, color.Bold)

	// Error message colors - bright red with bold for error messages
	Error = color.New(color.FgHiRed, color.Bold)

	// Warning message colors - bright yellow with bold for warnings
	Warning = color.New(color.FgHiYellow, color.Bold)

	// Update colors - bright magenta with bold for "update available"
	Update = color.New(color.FgHiMagenta, color.Bold)
)

// Print functions write colored output to w, e.g. a command's output stream
func PrintHeader(w io.Writer, format string, args ...interface{}) {
	_, _ = Header.Fprintf(w, format, args...)
}

func PrintData(w io.Writer, format string, args ...interface{}) {
	_, _ = Data.Fprintf(w, format, args...)
}

func PrintSuccess(w io.Writer, format string, args ...interface{}) {
	_, _ = Success.Fprintf(w, format, args...)
}

func PrintError(w io.Writer, format string, args ...interface{}) {
	_, _ = Error.Fprintf(w, format, args...)
}

func PrintWarning(w io.Writer, format string, args ...interface{}) {
	_, _ = Warning.Fprintf(w, format, args...)
}

func PrintUpdate(w io.Writer, format string, args ...interface{}) {
	_, _ = Update.Fprintf(w, format, args...)
}

// Color formatting functions that return colored strings
func ColorHeader(format string, args ...interface{}) string {
	return Header.Sprintf(format, args...)
}

func ColorData(format string, args ...interface{}) string {
	return Data.Sprintf(format, args...)
}

func ColorSuccess(format string, args ...interface{}) string {
	return Success.Sprintf(format, args...)
}

func ColorError(format string, args ...interface{}) string {
	return Error.Sprintf(format, args...)
}

func ColorWarning(format string, args ...interface{}) string {
	return Warning.Sprintf(format, args...)
}

func ColorUpdate(format string, args ...interface{}) string {
	return Update.Sprintf(format, args...)
}
