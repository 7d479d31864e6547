package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"storecheck/pkg/colors"
	"storecheck/pkg/security"

	"github.com/fatih/color"
)

// LogDirEnv overrides the directory used for the daily log file
const LogDirEnv = "STORECHECK_LOG_DIR"

var (
	// consoleOutput receives console log lines; stderr unless SetOutput changes it
	consoleOutput io.Writer = color.Error

	fileLogger  *log.Logger
	logFile     *os.File // Store file handle for proper cleanup
	loggerMutex sync.RWMutex
)

// SetOutput redirects console log lines and returns the previous writer
func SetOutput(w io.Writer) io.Writer {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	previous := consoleOutput
	consoleOutput = w
	return previous
}

func console() io.Writer {
	loggerMutex.RLock()
	defer loggerMutex.RUnlock()
	return consoleOutput
}

// getDefaultLogDir returns platform-appropriate default log directory
func getDefaultLogDir(homeDir string) string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("LOCALAPPDATA"); appData != "" {
			return filepath.Join(appData, "storecheck", "logs")
		}
		return filepath.Join(homeDir, "AppData", "Local", "storecheck", "logs")
	case "darwin":
		return filepath.Join(homeDir, "Library", "Logs", "storecheck")
	default:
		// XDG Base Directory
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "storecheck", "logs")
		}
		return filepath.Join(homeDir, ".local", "share", "storecheck", "logs")
	}
}

// getFilePermissions returns platform-appropriate file permissions
func getFilePermissions() os.FileMode {
	if runtime.GOOS == "windows" {
		return 0666
	}
	return 0600
}

// getDirPermissions returns platform-appropriate directory permissions
func getDirPermissions() os.FileMode {
	if runtime.GOOS == "windows" {
		return 0777
	}
	return 0755
}

// resolveLogDir picks the log directory: explicit argument, then STORECHECK_LOG_DIR, then
// the platform default. Unsafe paths fall back to the default.
func resolveLogDir(dir string) (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}

	if dir == "" {
		dir = os.Getenv(LogDirEnv)
	}
	if dir == "" {
		return getDefaultLogDir(homeDir), nil
	}

	if security.ContainsUnsafePath(dir) {
		fmt.Fprintf(os.Stderr, "Warning: Invalid log directory path %s, using default location\n", dir)
		return getDefaultLogDir(homeDir), nil
	}
	return dir, nil
}

// EnableFileLogging opens (or reopens) the daily log file in dir. An empty dir uses
// STORECHECK_LOG_DIR or the platform default. Console output is unaffected.
func EnableFileLogging(dir string) error {
	logDirPath, err := resolveLogDir(dir)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(logDirPath, getDirPermissions()); err != nil {
		return fmt.Errorf("could not create log directory %s: %w", logDirPath, err)
	}

	logFilePath := filepath.Join(logDirPath, fmt.Sprintf("storecheck-%s.log", time.Now().Format("2006-01-02")))
	if err := security.ValidateFilePath(logFilePath, logDirPath); err != nil {
		return fmt.Errorf("invalid log file path: %w", err)
	}
	// #nosec G304 - logDirPath is validated above and log filename is controlled by application
	file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, getFilePermissions())
	if err != nil {
		return fmt.Errorf("could not open log file %s: %w", logFilePath, err)
	}

	loggerMutex.Lock()
	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error closing previous log file: %v\n", err)
		}
	}
	logFile = file
	fileLogger = log.New(file, "", 0) // No prefix, we'll add our own timestamp
	loggerMutex.Unlock()

	return nil
}

// CloseLogger closes the log file; call during application shutdown
func CloseLogger() {
	loggerMutex.Lock()
	defer loggerMutex.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Error closing log file: %v\n", err)
		}
		logFile = nil
		fileLogger = nil
	}
}

func getTimestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

// logToFile writes a timestamped message to the log file (thread-safe)
func logToFile(level string, message string) {
	loggerMutex.RLock()
	logger := fileLogger
	loggerMutex.RUnlock()

	if logger != nil {
		logger.Printf("%s [%s] %s", getTimestamp(), level, message)
	}
}

// LogInfo logs an info message - colored to console, timestamped to file
func LogInfo(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = colors.Success.Fprintf(console(), "[INFO] %s\n", message)
	logToFile("INFO", message)
}

// LogWarn logs a warning message - colored to console, timestamped to file
func LogWarn(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = colors.Warning.Fprintf(console(), "[WARN] %s\n", message)
	logToFile("WARN", message)
}

// LogError logs an error message - colored to console, timestamped to file
func LogError(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = colors.Error.Fprintf(console(), "[ERROR] %s\n", message)
	logToFile("ERROR", message)
}

// LogDebug logs a debug message - colored to console, timestamped to file
func LogDebug(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = colors.Data.Fprintf(console(), "[DEBUG] %s\n", message)
	logToFile("DEBUG", message)
}

// LogSuccess logs a success message - colored to console, timestamped to file
func LogSuccess(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	_, _ = colors.Success.Fprintf(console(), "[SUCCESS] %s\n", message)
	logToFile("SUCCESS", message)
}

// Level is the minimum severity a Logger writes
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[string]Level{
	"debug": LevelDebug,
	"info":  LevelInfo,
	"warn":  LevelWarn,
	"error": LevelError,
}

// ParseLevel maps a config value (debug, info, warn, error) to a Level. Empty is info.
func ParseLevel(name string) (Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return LevelInfo, nil
	}
	level, ok := levelNames[name]
	if !ok {
		return LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Logger is the handle passed to the decision engine and providers. It forwards to the
// package-level functions and adds key/value fields.
type Logger struct {
	level Level
	noOp  bool
}

// NewLogger creates a logger that drops messages below level
func NewLogger(level Level) *Logger {
	return &Logger{
		level: level,
	}
}

// NewNoOpLogger creates a logger that discards all output
func NewNoOpLogger() *Logger {
	return &Logger{
		noOp: true,
	}
}

// OrNoOp returns l, or a no-op logger when l is nil
func OrNoOp(l *Logger) *Logger {
	if l == nil {
		return NewNoOpLogger()
	}
	return l
}

func (l *Logger) enabled(level Level) bool {
	return !l.noOp && level >= l.level
}

// formatFields converts key-value pairs to a formatted string
func (l *Logger) formatFields(fields ...interface{}) string {
	if len(fields) == 0 {
		return ""
	}

	var parts []string
	for i := 0; i < len(fields); i += 2 {
		if i+1 < len(fields) {
			parts = append(parts, fmt.Sprintf("%v=%v", fields[i], fields[i+1]))
		} else {
			parts = append(parts, fmt.Sprintf("%v=<no_value>", fields[i]))
		}
	}

	return " | " + strings.Join(parts, " ")
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields ...interface{}) {
	if !l.enabled(LevelDebug) {
		return
	}
	LogDebug("%s%s", msg, l.formatFields(fields...))
}

// Info logs an info message using centralized logging
func (l *Logger) Info(msg string, fields ...interface{}) {
	if !l.enabled(LevelInfo) {
		return
	}
	LogInfo("%s%s", msg, l.formatFields(fields...))
}

// Warn logs a warning message using centralized logging
func (l *Logger) Warn(msg string, fields ...interface{}) {
	if !l.enabled(LevelWarn) {
		return
	}
	LogWarn("%s%s", msg, l.formatFields(fields...))
}

// Error logs an error message using centralized logging
func (l *Logger) Error(msg string, fields ...interface{}) {
	if !l.enabled(LevelError) {
		return
	}
	LogError("%s%s", msg, l.formatFields(fields...))
}
