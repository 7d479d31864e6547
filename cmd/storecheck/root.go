package main

import (
	"fmt"
	"os"

	"storecheck/internal/config"
	"storecheck/pkg/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version represents the current version of storecheck
	// Override at build time with -ldflags "-X main.Version=X.Y.Z"
	Version    = "1.0.0"
	configFile string
	debug      bool
	logger     *logging.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storecheck",
	Short: "Check whether an installed app has a newer version in its store",
	Long: `storecheck compares the installed version of an application with the latest
version published in its store and reports whether an update is needed.

Providers:
- playStore: Google Play details page
- appStore: iTunes lookup API
- github: latest GitHub release of a repository
- ssm: AWS Systems Manager parameter kept current by a release pipeline
- s3: release manifest object in an S3 bucket`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupConfiguration(isConfigCommand(cmd))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $HOME/.storecheck.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")

	// Bind flags to viper
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// setupConfiguration reads the config file and environment. Config subcommands get to run
// against an invalid file so they can report or replace it.
func setupConfiguration(lenient bool) error {
	logger = logging.NewLogger(logLevel(""))

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to find home directory: %w", err)
		}

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(config.FileName)
	}

	if err := viper.ReadInConfig(); err == nil {
		logger.Debug("Using config file", "file", viper.ConfigFileUsed())
	} else if configFile != "" && !lenient {
		return fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	if err := config.Load(); err != nil {
		if !lenient {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.Warn("Configuration is invalid", "error", err)
	}

	cfg := config.Get()
	logger = logging.NewLogger(logLevel(cfg.Logging.Level))
	if cfg.Logging.FileLogging {
		if err := logging.EnableFileLogging(cfg.Logging.Directory); err != nil {
			logger.Warn("File logging disabled", "error", err)
		}
	}

	return nil
}

// logLevel applies --debug over the configured logging.level
func logLevel(configured string) logging.Level {
	if debug {
		return logging.LevelDebug
	}
	level, err := logging.ParseLevel(configured)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

// GetLogger returns the command logger, creating one if configuration has not run
func GetLogger() *logging.Logger {
	if logger == nil {
		logger = logging.NewLogger(logLevel(config.Get().Logging.Level))
	}
	return logger
}

// exitWithError logs err, closes the log file and exits with status 1
func exitWithError(msg string, err error) {
	logging.LogError("%s: %v", msg, err)
	logging.CloseLogger()
	os.Exit(1)
}
