package security

import (
	"path/filepath"
	"testing"
)

func TestValidateFilePath(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		name        string
		targetPath  string
		shouldError bool
	}{
		{"Valid path within base directory", filepath.Join(tempDir, "valid", "storecheck.yaml"), false},
		{"Base directory itself", tempDir, false},
		{"Simple parent directory traversal", filepath.Join(tempDir, "..", "malicious.yaml"), true},
		{"Nested directory traversal", filepath.Join(tempDir, "a", "..", "..", "malicious.yaml"), true},
		{"Filename with double dots", filepath.Join(tempDir, "file..yaml"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilePath(tt.targetPath, tempDir)
			if tt.shouldError && err == nil {
				t.Errorf("Expected error for %s", tt.targetPath)
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Expected no error for %s, got %v", tt.targetPath, err)
			}
		})
	}
}

func TestHasTraversalPatterns(t *testing.T) {
	testCases := []struct {
		path     string
		expected bool
	}{
		{"../etc/passwd", true},
		{"..\\etc\\passwd", true},
		{"safe/../etc/passwd", true},
		{"safe\\..\\etc\\passwd", true},
		{"path/..", true},
		{"..", true},
		{"path/to/file", false},
		{"path/file..txt", false},
		{".", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			if got := hasTraversalPatterns(tc.path); got != tc.expected {
				t.Errorf("hasTraversalPatterns(%q) = %v, expected %v", tc.path, got, tc.expected)
			}
		})
	}
}

func TestContainsUnsafePath(t *testing.T) {
	testCases := []struct {
		name     string
		path     string
		expected bool
	}{
		{"Hidden double traversal", "safe/./../../etc/passwd", true},
		{"Direct traversal", "../malicious", true},
		{"Null byte attack", "path\x00/etc/passwd", true},
		{"Double slash", "path//to//file", true},
		{"Double backslash", "path\\\\to\\\\file", true},
		{"User log directory", "/Users/user/Library/Logs/storecheck", false},
		{"Relative log path", "logs/storecheck", false},
		{"Windows absolute path", "C:\\Users\\me\\AppData\\Local\\storecheck", false},
		{"Empty path", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ContainsUnsafePath(tc.path); got != tc.expected {
				t.Errorf("ContainsUnsafePath(%q) = %v, expected %v", tc.path, got, tc.expected)
			}
		})
	}
}
