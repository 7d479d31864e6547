package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureConsole redirects colored console output for the duration of fn
func captureConsole(t *testing.T, fn func()) string {
	t.Helper()

	var buf bytes.Buffer
	originalOutput := SetOutput(&buf)
	originalNoColor := color.NoColor
	color.NoColor = true
	defer func() {
		SetOutput(originalOutput)
		color.NoColor = originalNoColor
	}()

	fn()
	return buf.String()
}

func todaysLogFile(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("storecheck-%s.log", time.Now().Format("2006-01-02")))
}

func TestEnableFileLogging(t *testing.T) {
	tempDir := t.TempDir()
	defer CloseLogger()

	require.NoError(t, EnableFileLogging(tempDir))

	hasLogger, hasFile := loggerState()
	assert.True(t, hasLogger, "EnableFileLogging() should create the file logger")
	assert.True(t, hasFile)

	_, err := os.Stat(todaysLogFile(tempDir))
	assert.NoError(t, err, "daily log file should exist")
}

func TestEnableFileLoggingFromEnv(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv(LogDirEnv, tempDir)
	defer CloseLogger()

	require.NoError(t, EnableFileLogging(""))

	_, err := os.Stat(todaysLogFile(tempDir))
	assert.NoError(t, err)
}

func TestResolveLogDirRejectsUnsafePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	dir, err := resolveLogDir("logs/../../etc")
	require.NoError(t, err)
	assert.Equal(t, getDefaultLogDir(home), dir)
}

// loggerState reads the file logger fields under the lock and releases it before returning
func loggerState() (hasLogger, hasFile bool) {
	loggerMutex.RLock()
	defer loggerMutex.RUnlock()
	return fileLogger != nil, logFile != nil
}

func TestCloseLogger(t *testing.T) {
	require.NoError(t, EnableFileLogging(t.TempDir()))

	CloseLogger()

	hasLogger, hasFile := loggerState()
	assert.False(t, hasLogger)
	assert.False(t, hasFile)

	// Closing twice is harmless
	done := make(chan struct{})
	go func() {
		CloseLogger()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("second CloseLogger() blocked")
	}
}

func TestConsoleOutputIsNotStdout(t *testing.T) {
	assert.NotEqual(t, os.Stdout, console(), "log lines must not mix with command output")
}

func TestSetOutputReturnsPrevious(t *testing.T) {
	var first, second bytes.Buffer
	original := SetOutput(&first)
	defer SetOutput(original)

	assert.Same(t, &first, SetOutput(&second))
	assert.Same(t, &second, SetOutput(&first))
}

func TestGetTimestamp(t *testing.T) {
	timestamp := getTimestamp()

	assert.Len(t, timestamp, 19)
	_, err := time.Parse("2006-01-02 15:04:05", timestamp)
	assert.NoError(t, err)
}

func TestLogFunctionsWriteConsoleAndFile(t *testing.T) {
	tempDir := t.TempDir()
	require.NoError(t, EnableFileLogging(tempDir))
	defer CloseLogger()

	tests := []struct {
		name    string
		logFunc func(string, ...interface{})
		level   string
	}{
		{"LogInfo", LogInfo, "INFO"},
		{"LogWarn", LogWarn, "WARN"},
		{"LogError", LogError, "ERROR"},
		{"LogDebug", LogDebug, "DEBUG"},
		{"LogSuccess", LogSuccess, "SUCCESS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureConsole(t, func() {
				tt.logFunc("checked %s", "com.example.app")
			})
			assert.Contains(t, out, "["+tt.level+"] checked com.example.app")
		})
	}

	data, err := os.ReadFile(todaysLogFile(tempDir))
	require.NoError(t, err)
	for _, tt := range tests {
		assert.Contains(t, string(data), "["+tt.level+"] checked com.example.app")
	}
}

func TestLoggerFormatFields(t *testing.T) {
	logger := NewLogger(LevelInfo)

	tests := []struct {
		name     string
		fields   []interface{}
		expected string
	}{
		{"no fields", nil, ""},
		{"one pair", []interface{}{"provider", "playStore"}, " | provider=playStore"},
		{"two pairs", []interface{}{"current", "1.0.0", "latest", "2.0.0"}, " | current=1.0.0 latest=2.0.0"},
		{"dangling key", []interface{}{"error"}, " | error=<no_value>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, logger.formatFields(tt.fields...))
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"", LevelInfo, false},
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{" warn ", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	emitAll := func(l *Logger) {
		l.Debug("debug line")
		l.Info("info line", "provider", "appStore")
		l.Warn("warn line", "error", "timeout")
		l.Error("error line")
	}

	tests := []struct {
		name    string
		level   Level
		present []string
		absent  []string
	}{
		{"debug", LevelDebug, []string{"[DEBUG] debug line", "[INFO] info line | provider=appStore", "[WARN] warn line | error=timeout", "[ERROR] error line"}, nil},
		{"info", LevelInfo, []string{"[INFO] info line", "[WARN] warn line", "[ERROR] error line"}, []string{"debug line"}},
		{"warn", LevelWarn, []string{"[WARN] warn line", "[ERROR] error line"}, []string{"debug line", "info line"}},
		{"error", LevelError, []string{"[ERROR] error line"}, []string{"debug line", "info line", "warn line"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := captureConsole(t, func() { emitAll(NewLogger(tt.level)) })
			for _, s := range tt.present {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestNoOpLogger(t *testing.T) {
	out := captureConsole(t, func() {
		logger := NewNoOpLogger()
		logger.Info("a")
		logger.Warn("b")
		logger.Error("c")
		logger.Debug("d")

		OrNoOp(nil).Warn("e")
	})

	assert.Empty(t, strings.TrimSpace(out))
}

func TestOrNoOpKeepsLogger(t *testing.T) {
	logger := NewLogger(LevelDebug)
	assert.Same(t, logger, OrNoOp(logger))
}

func TestConcurrentLogging(t *testing.T) {
	require.NoError(t, EnableFileLogging(t.TempDir()))
	defer CloseLogger()

	captureConsole(t, func() {
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				logToFile("INFO", fmt.Sprintf("goroutine %d", n))
			}(i)
		}
		wg.Wait()
	})
}
