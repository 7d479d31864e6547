package main

import (
	"fmt"
	"io"

	"storecheck/pkg/errors"
	"storecheck/pkg/version"

	"github.com/spf13/cobra"
)

// normalizeCmd represents the normalize command
var normalizeCmd = &cobra.Command{
	Use:   "normalize VERSION",
	Short: "Show a version as it is compared",
	Long: `Print VERSION truncated to --depth components and padded to three components,
the form used when comparing versions.

Examples:
  storecheck normalize 1.2              # 1.2.0
  storecheck normalize 1.2.3.4 --depth 2  # 1.2.0`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		depth, _ := cmd.Flags().GetInt("depth")

		if err := performNormalize(cmd.OutOrStdout(), args[0], depth); err != nil {
			exitWithError("Normalize failed", err)
		}
	},
}

func init() {
	normalizeCmd.Flags().IntP("depth", "d", version.DepthUnbounded, "number of leading components to keep (0 keeps all)")

	rootCmd.AddCommand(normalizeCmd)
}

func performNormalize(w io.Writer, v string, depth int) error {
	if depth < 0 {
		return errors.NewValidationError(fmt.Sprintf("depth must not be negative, got %d", depth))
	}

	fmt.Fprintln(w, version.Normalize(v, depth))
	return nil
}
