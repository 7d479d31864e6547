package main

import (
	"context"
	"net/http"

	"storecheck/internal/config"
	"storecheck/internal/interactive"
	"storecheck/pkg/appenv"
	awsservice "storecheck/pkg/aws"
	"storecheck/pkg/logging"
	"storecheck/pkg/provider"
	"storecheck/pkg/update"
)

// newAWSClient is replaced in tests
var newAWSClient = awsservice.NewClient

// newEnvironment reports the installed app from the config file, falling back to the
// STORECHECK_APP_* variables of the process
func newEnvironment(cfg *config.Config) appenv.Environment {
	return appenv.Chain{
		appenv.Static{Version: cfg.App.CurrentVersion, PackageID: cfg.App.PackageID},
		appenv.Process{},
	}
}

func usesAWS(cfg *config.Config) bool {
	return cfg.AWS.SSMParameter != "" || (cfg.AWS.S3Bucket != "" && cfg.AWS.S3Key != "")
}

// newRegistry registers the store providers plus every configured release channel
func newRegistry(ctx context.Context, cfg *config.Config, env appenv.Environment, log *logging.Logger) (*provider.Registry, error) {
	var client *http.Client
	if cfg.Check.Timeout > 0 {
		client = provider.NewHTTPClient(cfg.Check.Timeout)
	}

	reg := provider.NewDefaultRegistry(env, client, log)

	if cfg.GitHub.Owner != "" && cfg.GitHub.Repo != "" {
		gh := provider.NewGitHub(cfg.GitHub.Owner, cfg.GitHub.Repo, log)
		gh.Token = cfg.GitHub.Token
		if client != nil {
			gh.Client = client
		}
		if err := reg.Register(provider.GitHub, gh); err != nil {
			return nil, err
		}
	}

	if !usesAWS(cfg) {
		return reg, nil
	}

	awsClient, err := newAWSClient(ctx, awsservice.ClientOptions{
		Region:  cfg.AWS.Region,
		Profile: cfg.AWS.Profile,
	})
	if err != nil {
		return nil, err
	}

	if cfg.AWS.SSMParameter != "" {
		if err := reg.Register(provider.SSM, provider.NewSSM(awsClient.SSM, cfg.AWS.SSMParameter, cfg.AWS.StoreURL, log)); err != nil {
			return nil, err
		}
	}
	if cfg.AWS.S3Bucket != "" && cfg.AWS.S3Key != "" {
		if err := reg.Register(provider.S3, provider.NewS3(awsClient.S3, cfg.AWS.S3Bucket, cfg.AWS.S3Key, log)); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// newDefaults turns the check section of the config into engine defaults
func newDefaults(cfg *config.Config) update.Defaults {
	defaults := update.BaseDefaults()
	defaults.Depth = cfg.Check.Depth
	defaults.IgnoreErrors = cfg.Check.IgnoreErrors
	if cfg.Check.Provider != "" {
		defaults.Provider = provider.Named(cfg.Check.Provider)
	}
	defaults.Lookup = provider.LookupOptions{
		PackageID: cfg.App.PackageID,
		Country:   cfg.Check.Country,
		Language:  cfg.Check.Language,
	}
	return defaults
}

// providerChoices describes every built-in provider and whether the config can drive it
func providerChoices(cfg *config.Config) []interactive.ProviderChoice {
	return []interactive.ProviderChoice{
		{
			Name:        provider.PlayStore,
			Description: "Google Play details page",
			Configured:  cfg.App.PackageID != "",
			Settings:    map[string]string{"app.package_id": cfg.App.PackageID, "check.language": cfg.Check.Language},
		},
		{
			Name:        provider.AppStore,
			Description: "iTunes lookup API",
			Configured:  cfg.App.PackageID != "",
			Settings:    map[string]string{"app.package_id": cfg.App.PackageID, "check.country": cfg.Check.Country},
		},
		{
			Name:        provider.GitHub,
			Description: "latest GitHub release",
			Configured:  cfg.GitHub.Owner != "" && cfg.GitHub.Repo != "",
			Settings:    map[string]string{"github.owner": cfg.GitHub.Owner, "github.repo": cfg.GitHub.Repo},
		},
		{
			Name:        provider.SSM,
			Description: "AWS SSM parameter",
			Configured:  cfg.AWS.SSMParameter != "",
			Settings:    map[string]string{"aws.ssm_parameter": cfg.AWS.SSMParameter, "aws.region": cfg.AWS.Region},
		},
		{
			Name:        provider.S3,
			Description: "release manifest in S3",
			Configured:  cfg.AWS.S3Bucket != "" && cfg.AWS.S3Key != "",
			Settings:    map[string]string{"aws.s3_bucket": cfg.AWS.S3Bucket, "aws.s3_key": cfg.AWS.S3Key, "aws.region": cfg.AWS.Region},
		},
	}
}
