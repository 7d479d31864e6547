package main

import (
	"fmt"
	"io"

	"storecheck/internal/config"
	"storecheck/pkg/colors"

	"github.com/spf13/cobra"
)

// providersCmd represents the providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the version providers",
	Long: `List the built-in version providers, marking the configured default and
those that are missing settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		listProviders(cmd.OutOrStdout(), config.Get())
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func listProviders(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, colors.ColorHeader("%-10s %-8s %s", "NAME", "STATUS", "SOURCE"))

	for _, choice := range providerChoices(cfg) {
		status := colors.ColorSuccess("%-8s", "ready")
		if !choice.Configured {
			status = colors.ColorWarning("%-8s", "setup")
		}

		name := fmt.Sprintf("%-10s", choice.Name)
		if choice.Name == cfg.Check.Provider {
			name = colors.ColorData("%-10s", choice.Name+"*")
		}
		fmt.Fprintf(w, "%s %s %s\n", name, status, choice.Description)
	}

	fmt.Fprintln(w, "\n* default provider (check.provider)")
}
