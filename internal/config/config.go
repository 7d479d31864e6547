package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"storecheck/pkg/aws"
	"storecheck/pkg/errors"
	"storecheck/pkg/logging"
	"storecheck/pkg/provider"
	"storecheck/pkg/security"
)

// EnvPrefix is the prefix of environment variables that override config keys,
// e.g. STORECHECK_CHECK_PROVIDER for check.provider
const EnvPrefix = "STORECHECK"

// FileName is the config file name looked up in the home and working directories
const FileName = ".storecheck"

// Config represents the application configuration
type Config struct {
	// Installed application
	App AppConfig `mapstructure:"app"`

	// Update check behaviour
	Check CheckConfig `mapstructure:"check"`

	// GitHub releases channel
	GitHub GitHubConfig `mapstructure:"github"`

	// AWS hosted release channels (ssm, s3)
	AWS AWSConfig `mapstructure:"aws"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// AppConfig describes the installed application
type AppConfig struct {
	CurrentVersion string `mapstructure:"current_version"`
	PackageID      string `mapstructure:"package_id"`
}

// CheckConfig holds the defaults for an update check
type CheckConfig struct {
	// Provider name used when none is given on the command line
	Provider string `mapstructure:"provider"`

	// Number of leading version components compared, 0 compares all
	Depth int `mapstructure:"depth"`

	IgnoreErrors bool          `mapstructure:"ignore_errors"`
	Country      string        `mapstructure:"country"`
	Language     string        `mapstructure:"language"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// GitHubConfig identifies the repository whose releases are the latest version
type GitHubConfig struct {
	Owner string `mapstructure:"owner"`
	Repo  string `mapstructure:"repo"`
	Token string `mapstructure:"token"`
}

// AWSConfig configures the ssm and s3 providers
type AWSConfig struct {
	Region       string `mapstructure:"region"`
	Profile      string `mapstructure:"profile"`
	SSMParameter string `mapstructure:"ssm_parameter"`
	S3Bucket     string `mapstructure:"s3_bucket"`
	S3Key        string `mapstructure:"s3_key"`
	StoreURL     string `mapstructure:"store_url"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	// Log directory path
	Directory string `mapstructure:"directory"`

	// Enable file logging
	FileLogging bool `mapstructure:"file_logging"`

	// Log level (debug, info, warn, error)
	Level string `mapstructure:"level"`
}

var (
	// Global configuration instance
	cfg *Config

	countryPattern = regexp.MustCompile(`^[a-zA-Z]{2}$`)

	knownProviders = []string{provider.PlayStore, provider.AppStore, provider.GitHub, provider.SSM, provider.S3}
)

// Load reads the configuration from viper (file, environment and defaults) and validates it
func Load() error {
	setDefaults()

	loaded := &Config{}
	if err := viper.Unmarshal(loaded); err != nil {
		return errors.NewConfigError("failed to unmarshal configuration", err)
	}
	loaded.Logging.Directory = expandPath(loaded.Logging.Directory)

	if err := Validate(loaded); err != nil {
		return err
	}

	cfg = loaded
	return nil
}

// Get returns the global configuration instance
func Get() *Config {
	if cfg == nil {
		setDefaults()
		cfg = &Config{}
		_ = viper.Unmarshal(cfg)
	}
	return cfg
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Check defaults
	viper.SetDefault("check.provider", provider.PlayStore)
	viper.SetDefault("check.depth", 0)
	viper.SetDefault("check.ignore_errors", true)
	viper.SetDefault("check.language", "en")
	viper.SetDefault("check.timeout", provider.DefaultHTTPTimeout)

	// Keys without a useful default still need registering so the environment can set them
	for _, key := range []string{
		"app.current_version", "app.package_id", "check.country",
		"github.owner", "github.repo", "github.token",
		"aws.region", "aws.profile", "aws.ssm_parameter", "aws.s3_bucket", "aws.s3_key", "aws.store_url",
	} {
		viper.SetDefault(key, "")
	}

	// Logging defaults
	home, _ := os.UserHomeDir()
	viper.SetDefault("logging.directory", filepath.Join(home, "logs"))
	viper.SetDefault("logging.file_logging", false)
	viper.SetDefault("logging.level", "info")
}

// Validate reports every problem in cfg at once
func Validate(cfg *Config) error {
	var result *multierror.Error

	if cfg.Check.Provider != "" && !contains(knownProviders, cfg.Check.Provider) {
		result = multierror.Append(result, errors.NewValidationError(fmt.Sprintf(
			"check.provider %q is not one of %s", cfg.Check.Provider, strings.Join(knownProviders, ", "))))
	}
	if cfg.Check.Depth < 0 {
		result = multierror.Append(result, errors.NewValidationError(fmt.Sprintf(
			"check.depth must not be negative, got %d", cfg.Check.Depth)))
	}
	if cfg.Check.Timeout < 0 {
		result = multierror.Append(result, errors.NewValidationError("check.timeout must not be negative"))
	}
	if cfg.Check.Country != "" && !countryPattern.MatchString(cfg.Check.Country) {
		result = multierror.Append(result, errors.NewValidationError(fmt.Sprintf(
			"check.country %q must be a two-letter country code", cfg.Check.Country)))
	}

	switch cfg.Check.Provider {
	case provider.GitHub:
		if cfg.GitHub.Owner == "" || cfg.GitHub.Repo == "" {
			result = multierror.Append(result, errors.NewValidationError("github.owner and github.repo are required for the github provider"))
		}
	case provider.SSM:
		if cfg.AWS.SSMParameter == "" {
			result = multierror.Append(result, errors.NewValidationError("aws.ssm_parameter is required for the ssm provider"))
		}
	case provider.S3:
		if cfg.AWS.S3Bucket == "" || cfg.AWS.S3Key == "" {
			result = multierror.Append(result, errors.NewValidationError("aws.s3_bucket and aws.s3_key are required for the s3 provider"))
		}
	}

	if cfg.AWS.Region != "" {
		if _, err := aws.ResolveRegion(cfg.AWS.Region); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		result = multierror.Append(result, errors.NewValidationError(
			"logging.level must be one of debug, info, warn, error: "+err.Error()))
	}
	if cfg.Logging.Directory != "" && security.ContainsUnsafePath(cfg.Logging.Directory) {
		result = multierror.Append(result, errors.NewValidationError("logging.directory contains an unsafe path"))
	}

	return result.ErrorOrNil()
}

// ValidateFile checks that the file at path is well-formed YAML
func ValidateFile(path string) error {
	if !filepath.IsAbs(path) {
		if err := security.ValidateFilePathWithWorkingDir(path); err != nil {
			return errors.NewConfigError("config file must be inside the working directory", err).WithContext("file", path)
		}
	} else if security.ContainsUnsafePath(path) {
		return errors.NewConfigError("invalid config file path "+path, nil)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return errors.NewConfigError("failed to read config file", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return errors.NewConfigError("config file is not valid YAML", err).WithContext("file", path)
	}
	return nil
}

// CreateSampleConfig creates a sample configuration file
func CreateSampleConfig(configPath string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("unable to get home directory: %w", err)
	}
	logDir := filepath.Join(home, "logs")

	sampleConfig := fmt.Sprintf(`# storecheck Configuration File
# Values can be overridden with STORECHECK_<SECTION>_<KEY> environment variables

# The installed application
app:
  current_version: "1.0.0"
  package_id: "com.example.app"

# Update check defaults
check:
  # playStore, appStore, github, ssm or s3
  provider: "playStore"

  # Leading version components to compare, 0 compares all
  depth: 0

  # Log failures and report "unknown" instead of failing
  ignore_errors: true

  # Two-letter store country (appStore) and page language (playStore)
  country: ""
  language: "en"

  timeout: "10s"

# GitHub releases (github provider)
github:
  owner: ""
  repo: ""

# AWS hosted release channels (ssm and s3 providers)
aws:
  region: "ca-central-1"
  profile: ""

  # Parameter holding the latest version; {package} expands to app.package_id
  ssm_parameter: "/releases/{package}/latest"

  # Release manifest object
  s3_bucket: ""
  s3_key: ""

  # Link shown with ssm results
  store_url: ""

# Logging configuration
logging:
  directory: "%s"
  file_logging: false
  level: "info"
`, filepath.ToSlash(logDir))

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return errors.NewConfigError("failed to create config directory", err)
	}

	if err := os.WriteFile(configPath, []byte(sampleConfig), 0600); err != nil {
		return errors.NewConfigError("failed to write sample config", err)
	}

	return nil
}

// DefaultPath returns the default configuration file path
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, FileName+".yaml")
}

// Exists reports whether a configuration file exists at path, or at DefaultPath when
// path is empty
func Exists(path string) bool {
	if path == "" {
		path = DefaultPath()
	}
	_, err := os.Stat(path)
	return err == nil
}

// expandPath expands paths with tilde (~) to the user's home directory
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}

	return path
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
