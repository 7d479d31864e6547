package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidateFilePath ensures the path is within the allowed base directory (CWE-22)
func ValidateFilePath(targetPath, baseDir string) error {
	cleanTarget, err := filepath.Abs(filepath.Clean(targetPath))
	if err != nil {
		return fmt.Errorf("failed to resolve target path: %w", err)
	}

	cleanBase, err := filepath.Abs(filepath.Clean(baseDir))
	if err != nil {
		return fmt.Errorf("failed to resolve base path: %w", err)
	}

	relPath, err := filepath.Rel(cleanBase, cleanTarget)
	if err != nil {
		return fmt.Errorf("failed to compute relative path: %w", err)
	}

	if filepath.IsAbs(relPath) || hasTraversalPatterns(relPath) {
		return fmt.Errorf("path escapes base directory: %s", targetPath)
	}

	return nil
}

// ValidateFilePathWithWorkingDir validates file path against current working directory
func ValidateFilePathWithWorkingDir(targetPath string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	return ValidateFilePath(targetPath, cwd)
}

// ContainsUnsafePath reports whether a user-supplied path (log directory, config file)
// carries traversal, null byte or doubled separator patterns. The raw string is checked
// before filepath.Clean so normalization can't hide an embedded "..".
func ContainsUnsafePath(path string) bool {
	if path == "" {
		return false
	}

	if strings.ContainsRune(path, '\x00') {
		return true
	}

	if strings.Contains(path, "//") || strings.Contains(path, `\\`) {
		return true
	}

	return hasTraversalPatterns(path)
}

// hasTraversalPatterns checks for ".." segments with either separator
func hasTraversalPatterns(path string) bool {
	if path == ".." {
		return true
	}

	for _, sep := range []string{"/", `\`} {
		if strings.HasPrefix(path, ".."+sep) ||
			strings.Contains(path, sep+".."+sep) ||
			strings.HasSuffix(path, sep+"..") {
			return true
		}
	}

	return false
}
