package main

import (
	"fmt"
	"io"
	"os"

	"storecheck/internal/config"
	"storecheck/pkg/colors"
	"storecheck/pkg/logging"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long: `Manage storecheck configuration including initialization, validation, and display.

Examples:
  storecheck config init                    # Create ~/.storecheck.yaml
  storecheck config show                    # Show current config
  storecheck config validate                # Check the config file`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long:  `Create a sample configuration file to edit with your application's details.`,
	Run: func(cmd *cobra.Command, args []string) {
		force, _ := cmd.Flags().GetBool("force")

		if err := initializeConfigFile(cmd.OutOrStdout(), configPath(), force); err != nil {
			exitWithError("Configuration initialization failed", err)
		}
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long:  `Display the effective storecheck configuration: file, environment and defaults.`,
	Run: func(cmd *cobra.Command, args []string) {
		showConfiguration(cmd.OutOrStdout(), config.Get())
	},
}

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long:  `Validate the storecheck configuration file for syntax and required fields.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateConfiguration(cmd.OutOrStdout(), configPath()); err != nil {
			exitWithError("Configuration validation failed", err)
		}
	},
}

func init() {
	configInitCmd.Flags().BoolP("force", "f", false, "overwrite an existing configuration file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}

// configPath is the --config file or the default location
func configPath() string {
	if configFile != "" {
		return configFile
	}
	return config.DefaultPath()
}

// initializeConfigFile handles the config initialization logic and returns errors instead of calling os.Exit
func initializeConfigFile(w io.Writer, path string, force bool) error {
	if config.Exists(path) && !force {
		return fmt.Errorf("configuration file already exists at %s, use --force to overwrite", path)
	}

	if err := config.CreateSampleConfig(path); err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}

	logging.LogSuccess("Sample configuration created at %s", path)
	fmt.Fprintln(w, "Set app.package_id and check.provider, then run 'storecheck check'.")
	return nil
}

func showConfiguration(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, colors.ColorHeader("\n=== Current Configuration ==="))

	fmt.Fprintf(w, "\nApp:\n")
	fmt.Fprintf(w, "  Current Version: %s\n", orNotSet(cfg.App.CurrentVersion))
	fmt.Fprintf(w, "  Package ID: %s\n", orNotSet(cfg.App.PackageID))

	fmt.Fprintf(w, "\nCheck:\n")
	fmt.Fprintf(w, "  Provider: %s\n", orNotSet(cfg.Check.Provider))
	fmt.Fprintf(w, "  Depth: %d\n", cfg.Check.Depth)
	fmt.Fprintf(w, "  Ignore Errors: %v\n", cfg.Check.IgnoreErrors)
	fmt.Fprintf(w, "  Country: %s\n", orNotSet(cfg.Check.Country))
	fmt.Fprintf(w, "  Language: %s\n", orNotSet(cfg.Check.Language))
	fmt.Fprintf(w, "  Timeout: %s\n", cfg.Check.Timeout)

	fmt.Fprintf(w, "\nGitHub:\n")
	fmt.Fprintf(w, "  Repository: %s/%s\n", cfg.GitHub.Owner, cfg.GitHub.Repo)
	fmt.Fprintf(w, "  Token: %s\n", maskSecret(cfg.GitHub.Token))

	fmt.Fprintf(w, "\nAWS:\n")
	fmt.Fprintf(w, "  Region: %s\n", orNotSet(cfg.AWS.Region))
	fmt.Fprintf(w, "  Profile: %s\n", orNotSet(cfg.AWS.Profile))
	fmt.Fprintf(w, "  SSM Parameter: %s\n", orNotSet(cfg.AWS.SSMParameter))
	fmt.Fprintf(w, "  S3 Manifest: %s\n", orNotSet(s3Location(cfg)))

	fmt.Fprintf(w, "\nLogging:\n")
	fmt.Fprintf(w, "  Directory: %s\n", cfg.Logging.Directory)
	fmt.Fprintf(w, "  File Logging: %v\n", cfg.Logging.FileLogging)
	fmt.Fprintf(w, "  Level: %s\n", cfg.Logging.Level)

	if used := viper.ConfigFileUsed(); used != "" {
		fmt.Fprintf(w, "\nConfig File: %s\n", used)
	} else {
		fmt.Fprintf(w, "\nConfig File: Not found (using defaults)\n")
		fmt.Fprintf(w, "Run 'storecheck config init' to create configuration file\n")
	}
}

// validateConfiguration checks YAML syntax and then every field, listing all problems
func validateConfiguration(w io.Writer, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("no configuration file at %s", path)
	}
	if err := config.ValidateFile(path); err != nil {
		return err
	}

	if err := config.Load(); err != nil {
		if merr, ok := err.(*multierror.Error); ok {
			fmt.Fprintln(w, colors.ColorError("Configuration has %d problem(s):", len(merr.Errors)))
			for _, e := range merr.Errors {
				fmt.Fprintf(w, "  - %v\n", e)
			}
			return fmt.Errorf("configuration validation failed with %d errors", len(merr.Errors))
		}
		return err
	}

	fmt.Fprintln(w, colors.ColorSuccess("Configuration validation passed ✅"))
	return nil
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func maskSecret(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}

func s3Location(cfg *config.Config) string {
	if cfg.AWS.S3Bucket == "" {
		return ""
	}
	return "s3://" + cfg.AWS.S3Bucket + "/" + cfg.AWS.S3Key
}
