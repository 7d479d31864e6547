package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"storecheck/internal/config"
	"storecheck/internal/interactive"
	"storecheck/pkg/colors"
	checkerrors "storecheck/pkg/errors"
	"storecheck/pkg/logging"
	"storecheck/pkg/provider"
	"storecheck/pkg/update"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// checkFlags are the command line values layered over the config file
type checkFlags struct {
	current     string
	latest      string
	depth       int
	depthSet    bool
	provider    string
	packageID   string
	country     string
	language    string
	strict      bool
	interactive bool
	open        bool
	json        bool
}

var (
	// openURL and isTerminal are replaced in tests
	openURL    = browser.OpenURL
	isTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	selector   interactive.ProviderSelector = &interactive.FuzzyProviderSelector{}
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether an update is available",
	Long: `Compare the installed version with the latest published version.

The installed version comes from --current, app.current_version or
STORECHECK_APP_CURRENT_VERSION. The latest version comes from --latest or
from the selected provider.

Examples:
  storecheck check --current 1.2.0 --provider appStore --package com.example.app
  storecheck check --depth 2                   # ignore patch releases
  storecheck check --strict --json             # fail on errors, print JSON
  storecheck check --interactive --open        # pick a provider, open the store page`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := checkFlags{}
		flags.current, _ = cmd.Flags().GetString("current")
		flags.latest, _ = cmd.Flags().GetString("latest")
		flags.depth, _ = cmd.Flags().GetInt("depth")
		flags.depthSet = cmd.Flags().Changed("depth")
		flags.provider, _ = cmd.Flags().GetString("provider")
		flags.packageID, _ = cmd.Flags().GetString("package")
		flags.country, _ = cmd.Flags().GetString("country")
		flags.language, _ = cmd.Flags().GetString("language")
		flags.strict, _ = cmd.Flags().GetBool("strict")
		flags.interactive, _ = cmd.Flags().GetBool("interactive")
		flags.open, _ = cmd.Flags().GetBool("open")
		flags.json, _ = cmd.Flags().GetBool("json")

		if err := performCheck(context.Background(), cmd.OutOrStdout(), config.Get(), flags); err != nil {
			exitWithError("Update check failed", err)
		}
	},
}

func init() {
	checkCmd.Flags().String("current", "", "installed version (default from config or environment)")
	checkCmd.Flags().String("latest", "", "latest version, skips the provider lookup")
	checkCmd.Flags().Int("depth", 0, "number of leading version components to compare (0 compares all)")
	checkCmd.Flags().StringP("provider", "p", "", "provider name (playStore, appStore, github, ssm, s3)")
	checkCmd.Flags().String("package", "", "package name or bundle id of the app")
	checkCmd.Flags().String("country", "", "two-letter store country (appStore)")
	checkCmd.Flags().String("language", "", "store page language (playStore)")
	checkCmd.Flags().Bool("strict", false, "fail instead of reporting an unknown result")
	checkCmd.Flags().BoolP("interactive", "i", false, "pick the provider interactively")
	checkCmd.Flags().Bool("open", false, "open the store page when an update is available")
	checkCmd.Flags().Bool("json", false, "print the result as JSON")

	rootCmd.AddCommand(checkCmd)
}

// buildOptions turns the flags into decision options; unset flags keep the engine defaults
func buildOptions(flags checkFlags) update.Options {
	opts := update.Options{
		Lookup: provider.LookupOptions{
			PackageID: flags.packageID,
			Country:   flags.country,
			Language:  flags.language,
		},
	}

	if flags.current != "" {
		opts.CurrentVersion = &flags.current
	}
	if flags.latest != "" {
		opts.LatestVersion = &flags.latest
	}
	if flags.depthSet {
		opts.Depth = &flags.depth
	}
	if flags.provider != "" {
		opts.Provider = provider.Named(flags.provider)
	}
	if flags.strict {
		strict := false
		opts.IgnoreErrors = &strict
		opts.Lookup.IgnoreErrors = &strict
	}
	return opts
}

// performCheck runs one decision and prints it
func performCheck(ctx context.Context, w io.Writer, cfg *config.Config, flags checkFlags) error {
	log := GetLogger()

	if flags.interactive && flags.provider == "" && flags.latest == "" {
		if !isTerminal() {
			log.Warn("Not a terminal, using the configured provider", "provider", cfg.Check.Provider)
		} else {
			choice, err := selector.SelectProvider(providerChoices(cfg))
			if err != nil {
				return err
			}
			flags.provider = choice.Name
		}
	}

	if cfg.Check.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Check.Timeout)
		defer cancel()
	}

	env := newEnvironment(cfg)
	reg, err := newRegistry(ctx, cfg, env, log)
	if err != nil {
		return err
	}
	engine := update.NewEngine(env, reg, nil, newDefaults(cfg), log)

	res, err := engine.Decide(ctx, buildOptions(flags))
	if err != nil {
		logParseFailure(log, err)
		return err
	}

	if flags.json {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(res)
	}

	printResult(w, res)

	if flags.open && res != nil && res.IsNeeded && res.StoreURL != "" {
		log.Info("Opening store page", "url", res.StoreURL)
		if err := openURL(res.StoreURL); err != nil {
			log.Warn("Could not open the store page", "url", res.StoreURL, "error", err)
		}
	}
	return nil
}

// rawPreviewLen caps how much of an unparseable response is logged
const rawPreviewLen = 200

// logParseFailure logs the start of the response a provider could not parse
func logParseFailure(log *logging.Logger, err error) {
	var checkErr *checkerrors.CheckError
	if !stderrors.As(err, &checkErr) || checkErr.Type != checkerrors.ErrTypeParse {
		return
	}

	raw := checkErr.Raw()
	if raw == "" {
		return
	}
	preview := raw
	if len(preview) > rawPreviewLen {
		preview = preview[:rawPreviewLen] + "..."
	}
	log.Debug("Unparseable provider response", "bytes", len(raw), "content", preview)
}

func printResult(w io.Writer, res *update.Result) {
	if res == nil {
		colors.PrintWarning(w, "⚠ Could not determine whether an update is available\n")
		fmt.Fprintln(w, "Run with --strict to see the error")
		return
	}

	printField(w, "Current version:", res.CurrentVersion)
	printField(w, "Latest version: ", res.LatestVersion)
	if res.LatestReleaseDate != nil {
		printField(w, "Released:       ", res.LatestReleaseDate.Format("2006-01-02"))
	}
	if res.StoreURL != "" {
		printField(w, "Store:          ", res.StoreURL)
	}

	fmt.Fprintln(w)
	if res.IsNeeded {
		colors.PrintUpdate(w, "⬆ Update available\n")
	} else {
		colors.PrintSuccess(w, "✓ Up to date\n")
	}
}

func printField(w io.Writer, label, value string) {
	colors.PrintHeader(w, "%s", label)
	colors.PrintData(w, " %s\n", value)
}
