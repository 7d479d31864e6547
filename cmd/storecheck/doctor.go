package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"storecheck/internal/config"
	awsservice "storecheck/pkg/aws"
	"storecheck/pkg/colors"

	"github.com/spf13/cobra"
)

// doctorTimeout bounds the credential check
const doctorTimeout = 15 * time.Second

// doctorCheck is one line of the doctor report
type doctorCheck struct {
	Name       string
	Passed     bool
	Detail     string
	Suggestion string
}

// doctorCmd represents the doctor command
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the configuration can run an update check",
	Long: `Check the configuration, the installed app details and, when an ssm or s3
provider is configured, that AWS credentials are valid.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithTimeout(context.Background(), doctorTimeout)
		defer cancel()

		if err := runDoctor(ctx, cmd.OutOrStdout(), config.Get()); err != nil {
			exitWithError("Doctor found problems", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(ctx context.Context, w io.Writer, cfg *config.Config) error {
	checks := []doctorCheck{
		checkConfiguration(cfg),
		checkCurrentVersion(ctx, cfg),
		checkDefaultProvider(cfg),
	}
	if usesAWS(cfg) {
		checks = append(checks, checkAWSCredentials(ctx, cfg))
	}

	failed := 0
	for _, c := range checks {
		if c.Passed {
			colors.PrintSuccess(w, "✅")
		} else {
			failed++
			colors.PrintError(w, "❌")
		}
		fmt.Fprintf(w, " %s", c.Name)
		if c.Detail != "" {
			fmt.Fprintf(w, ": %s", c.Detail)
		}
		fmt.Fprintln(w)
		if !c.Passed && c.Suggestion != "" {
			fmt.Fprintf(w, "   💡 %s\n", c.Suggestion)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	colors.PrintSuccess(w, "\nAll checks passed ✅\n")
	return nil
}

func checkConfiguration(cfg *config.Config) doctorCheck {
	if err := config.Validate(cfg); err != nil {
		return doctorCheck{Name: "Configuration", Detail: err.Error(), Suggestion: "run 'storecheck config validate'"}
	}
	return doctorCheck{Name: "Configuration", Passed: true}
}

func checkCurrentVersion(ctx context.Context, cfg *config.Config) doctorCheck {
	v, err := newEnvironment(cfg).CurrentVersion(ctx)
	if err != nil {
		return doctorCheck{
			Name:       "Installed version",
			Detail:     err.Error(),
			Suggestion: "set app.current_version or pass --current to 'storecheck check'",
		}
	}
	return doctorCheck{Name: "Installed version", Passed: true, Detail: v}
}

func checkDefaultProvider(cfg *config.Config) doctorCheck {
	for _, choice := range providerChoices(cfg) {
		if choice.Name != cfg.Check.Provider {
			continue
		}
		if !choice.Configured {
			return doctorCheck{
				Name:       "Default provider",
				Detail:     choice.Name + " is missing settings",
				Suggestion: "run 'storecheck providers' to see what it needs",
			}
		}
		return doctorCheck{Name: "Default provider", Passed: true, Detail: choice.Name}
	}
	return doctorCheck{Name: "Default provider", Detail: "none configured", Suggestion: "set check.provider"}
}

func checkAWSCredentials(ctx context.Context, cfg *config.Config) doctorCheck {
	client, err := newAWSClient(ctx, awsservice.ClientOptions{Region: cfg.AWS.Region, Profile: cfg.AWS.Profile})
	if err != nil {
		return doctorCheck{Name: "AWS credentials", Detail: err.Error(), Suggestion: "check aws.region and aws.profile"}
	}

	account, err := client.ValidateCredentials(ctx)
	if err != nil {
		return doctorCheck{Name: "AWS credentials", Detail: err.Error(), Suggestion: "refresh your credentials, e.g. 'aws sso login'"}
	}
	return doctorCheck{Name: "AWS credentials", Passed: true, Detail: "account " + account}
}
