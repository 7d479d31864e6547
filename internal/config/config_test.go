package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper isolates a test from the global viper instance
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	cfg = nil
	t.Cleanup(func() {
		viper.Reset()
		cfg = nil
	})
}

func validConfig() *Config {
	return &Config{
		App:   AppConfig{CurrentVersion: "1.0.0", PackageID: "com.example.app"},
		Check: CheckConfig{Provider: "playStore", Language: "en", Timeout: 10 * time.Second, IgnoreErrors: true},
		Logging: LoggingConfig{
			Directory: "/tmp/logs",
			Level:     "info",
		},
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty path", "", ""},
		{"absolute path", "/tmp/test", "/tmp/test"},
		{"relative path", "test/path", "test/path"},
		{"tilde prefix", "~/logs", filepath.Join(home, "logs")},
		{"bare tilde", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	resetViper(t)

	require.NoError(t, Load())
	c := Get()

	assert.Equal(t, "playStore", c.Check.Provider)
	assert.Equal(t, 0, c.Check.Depth)
	assert.True(t, c.Check.IgnoreErrors)
	assert.Equal(t, "en", c.Check.Language)
	assert.Equal(t, 10*time.Second, c.Check.Timeout)
	assert.Equal(t, "info", c.Logging.Level)
	assert.False(t, c.Logging.FileLogging)
}

func TestLoadFromFile(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "storecheck.yaml")
	content := `
app:
  current_version: "2.3.1"
  package_id: "com.example.field"
check:
  provider: "appStore"
  depth: 2
  ignore_errors: false
  country: "ca"
  timeout: "3s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())
	require.NoError(t, Load())

	c := Get()
	assert.Equal(t, "2.3.1", c.App.CurrentVersion)
	assert.Equal(t, "com.example.field", c.App.PackageID)
	assert.Equal(t, "appStore", c.Check.Provider)
	assert.Equal(t, 2, c.Check.Depth)
	assert.False(t, c.Check.IgnoreErrors)
	assert.Equal(t, "ca", c.Check.Country)
	assert.Equal(t, 3*time.Second, c.Check.Timeout)
	assert.Equal(t, "en", c.Check.Language, "unset keys keep their defaults")
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	resetViper(t)
	t.Setenv("STORECHECK_CHECK_PROVIDER", "github")
	t.Setenv("STORECHECK_GITHUB_OWNER", "example")
	t.Setenv("STORECHECK_GITHUB_REPO", "app")
	t.Setenv("STORECHECK_APP_CURRENT_VERSION", "0.9.0")

	require.NoError(t, Load())

	c := Get()
	assert.Equal(t, "github", c.Check.Provider)
	assert.Equal(t, "example", c.GitHub.Owner)
	assert.Equal(t, "app", c.GitHub.Repo)
	assert.Equal(t, "0.9.0", c.App.CurrentVersion)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	resetViper(t)
	t.Setenv("STORECHECK_CHECK_PROVIDER", "windowsStore")

	err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "windowsStore")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(c *Config)
		wantErrs int
		contains string
	}{
		{"valid config", func(c *Config) {}, 0, ""},
		{"unknown provider", func(c *Config) { c.Check.Provider = "fdroid" }, 1, "check.provider"},
		{"empty provider is allowed", func(c *Config) { c.Check.Provider = "" }, 0, ""},
		{"negative depth", func(c *Config) { c.Check.Depth = -2 }, 1, "check.depth"},
		{"negative timeout", func(c *Config) { c.Check.Timeout = -time.Second }, 1, "check.timeout"},
		{"bad country", func(c *Config) { c.Check.Country = "CAN" }, 1, "check.country"},
		{"github without repo", func(c *Config) { c.Check.Provider = "github"; c.GitHub.Owner = "example" }, 1, "github.owner"},
		{"ssm without parameter", func(c *Config) { c.Check.Provider = "ssm" }, 1, "aws.ssm_parameter"},
		{"s3 without key", func(c *Config) { c.Check.Provider = "s3"; c.AWS.S3Bucket = "releases" }, 1, "aws.s3_key"},
		{"region shortcode", func(c *Config) { c.AWS.Region = "cac1" }, 0, ""},
		{"invalid region", func(c *Config) { c.AWS.Region = "moon-base-1" }, 1, "moon-base-1"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, 1, "logging.level"},
		{"log level is case insensitive", func(c *Config) { c.Logging.Level = "WARN" }, 0, ""},
		{"unsafe log directory", func(c *Config) { c.Logging.Directory = "/var/log/../../etc" }, 1, "logging.directory"},
		{
			"several problems reported together",
			func(c *Config) {
				c.Check.Depth = -1
				c.Check.Country = "1"
				c.Logging.Level = "loud"
			},
			3,
			"check.depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(c)

			err := Validate(c)
			if tt.wantErrs == 0 {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			var merr *multierror.Error
			require.ErrorAs(t, err, &merr)
			assert.Len(t, merr.Errors, tt.wantErrs)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestCreateSampleConfig(t *testing.T) {
	resetViper(t)

	path := filepath.Join(t.TempDir(), "nested", ".storecheck.yaml")
	require.NoError(t, CreateSampleConfig(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	}

	// The sample must be valid YAML and load into a valid configuration
	require.NoError(t, ValidateFile(path))

	viper.SetConfigFile(path)
	require.NoError(t, viper.ReadInConfig())
	require.NoError(t, Load())
	assert.Equal(t, "com.example.app", Get().App.PackageID)
	assert.Equal(t, "/releases/{package}/latest", Get().AWS.SSMParameter)
}

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("check:\n  provider: [playStore\n"), 0600))
	err := ValidateFile(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid YAML")

	err = ValidateFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read")

	err = ValidateFile(dir + "/../" + filepath.Base(dir) + "/broken.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config file path")

	err = ValidateFile(filepath.Join("..", "..", "storecheck.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inside the working directory")
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".storecheck.yaml")
	assert.False(t, Exists(path))

	require.NoError(t, os.WriteFile(path, []byte("check:\n  provider: appStore\n"), 0600))
	assert.True(t, Exists(path))
}

func TestDefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".storecheck.yaml"), DefaultPath())
}
