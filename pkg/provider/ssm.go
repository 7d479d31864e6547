package provider

import (
	"context"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	storeaws "storecheck/pkg/aws"
	"storecheck/pkg/errors"
	"storecheck/pkg/logging"
	"storecheck/pkg/policy"
)

const packagePlaceholder = "{package}"

// SSMProvider reads the latest version from an SSM Parameter Store parameter that a
// release pipeline keeps current. The parameter's last modification is the release date.
type SSMProvider struct {
	Client    storeaws.SSMParameterAPI
	Parameter string
	StoreURL  string
	Logger    *logging.Logger
}

// NewSSM creates a provider for one parameter
func NewSSM(client storeaws.SSMParameterAPI, parameter, storeURL string, logger *logging.Logger) *SSMProvider {
	return &SSMProvider{
		Client:    client,
		Parameter: parameter,
		StoreURL:  storeURL,
		Logger:    logger,
	}
}

func (p *SSMProvider) GetVersion(ctx context.Context, opts LookupOptions) (*Result, error) {
	res, err := p.lookup(ctx, opts)
	return policy.Apply(policy.Policy{IgnoreErrors: opts.ignoreErrors(), Logger: p.Logger}, SSM+" lookup", res, err)
}

// parameterName expands a "{package}" placeholder with the lookup's package id
func (p *SSMProvider) parameterName(opts LookupOptions) (string, error) {
	if !strings.Contains(p.Parameter, packagePlaceholder) {
		return p.Parameter, nil
	}
	if opts.PackageID == "" {
		return "", errors.NewConfigError("ssm parameter "+p.Parameter+" needs a package id", nil)
	}
	return strings.ReplaceAll(p.Parameter, packagePlaceholder, opts.PackageID), nil
}

func (p *SSMProvider) lookup(ctx context.Context, opts LookupOptions) (*Result, error) {
	if p.Client == nil || p.Parameter == "" {
		return nil, errors.NewConfigError("ssm provider needs a client and a parameter name", nil)
	}

	name, err := p.parameterName(opts)
	if err != nil {
		return nil, err
	}
	logging.OrNoOp(p.Logger).Debug("Reading SSM parameter", "name", name)

	out, err := p.Client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           awssdk.String(name),
		WithDecryption: awssdk.Bool(true),
	})
	if err != nil {
		return nil, errors.NewTransportError("failed to read SSM parameter", errors.NewAWSError(name, err)).
			WithContext("parameter", name)
	}

	if out.Parameter == nil || strings.TrimSpace(awssdk.ToString(out.Parameter.Value)) == "" {
		return nil, errors.NewParseError("SSM parameter "+name+" has no value", "").
			WithContext("parameter", name)
	}

	return &Result{
		Version:     strings.TrimSpace(awssdk.ToString(out.Parameter.Value)),
		StoreURL:    p.StoreURL,
		ReleaseDate: out.Parameter.LastModifiedDate,
	}, nil
}
