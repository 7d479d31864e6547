package aws

import (
	"context"

	"storecheck/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// SSMParameterAPI is the part of the SSM client used to read a release pointer
type SSMParameterAPI interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// S3ObjectAPI is the part of the S3 client used to read a release manifest
type S3ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// CallerIdentityAPI is the part of the STS client used to validate credentials
type CallerIdentityAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Client wraps the AWS service clients used by the ssm and s3 providers
type Client struct {
	Config aws.Config
	SSM    SSMParameterAPI
	S3     S3ObjectAPI
	STS    CallerIdentityAPI
}

// ClientOptions configures the AWS client
type ClientOptions struct {
	Region  string
	Profile string
}

// NewClient creates a new AWS client with the specified options
func NewClient(ctx context.Context, opts ClientOptions) (*Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if opts.Region != "" {
		region, err := ResolveRegion(opts.Region)
		if err != nil {
			return nil, err
		}
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.NewAWSError("failed to load AWS configuration", err)
	}

	return &Client{
		Config: cfg,
		SSM:    ssm.NewFromConfig(cfg),
		S3:     s3.NewFromConfig(cfg),
		STS:    sts.NewFromConfig(cfg),
	}, nil
}

// GetCallerIdentity returns information about the current AWS credentials
func (c *Client) GetCallerIdentity(ctx context.Context) (*sts.GetCallerIdentityOutput, error) {
	output, err := c.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return nil, errors.NewAWSError("failed to get caller identity", err)
	}
	return output, nil
}

// ValidateCredentials checks that the credentials resolve to an account and returns its id
func (c *Client) ValidateCredentials(ctx context.Context) (string, error) {
	identity, err := c.GetCallerIdentity(ctx)
	if err != nil {
		return "", err
	}

	account := aws.ToString(identity.Account)
	if account == "" {
		return "", errors.NewAWSError("caller identity has no account", nil)
	}
	return account, nil
}
