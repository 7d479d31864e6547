package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	ssmtypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/fatih/color"

	"storecheck/internal/config"
	"storecheck/internal/interactive"
	awsservice "storecheck/pkg/aws"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "storecheck.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// noColor disables ANSI codes so output can be compared as text
func noColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = original })
}

type mockSSMClient struct {
	value string
	err   error
}

func (m *mockSSMClient) GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &ssm.GetParameterOutput{Parameter: &ssmtypes.Parameter{Name: params.Name, Value: aws.String(m.value)}}, nil
}

type mockS3Client struct {
	body string
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(m.body))}, nil
}

type mockSTSClient struct {
	err error
}

func (m *mockSTSClient) GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/release-bot"),
	}, nil
}

// useMockAWS replaces the AWS client factory for the duration of the test
func useMockAWS(t *testing.T, client *awsservice.Client) *awsservice.ClientOptions {
	t.Helper()

	got := &awsservice.ClientOptions{}
	original := newAWSClient
	newAWSClient = func(ctx context.Context, opts awsservice.ClientOptions) (*awsservice.Client, error) {
		*got = opts
		return client, nil
	}
	t.Cleanup(func() { newAWSClient = original })
	return got
}

type fakeSelector struct {
	name    string
	offered []interactive.ProviderChoice
}

func (f *fakeSelector) SelectProvider(choices []interactive.ProviderChoice) (*interactive.ProviderChoice, error) {
	f.offered = choices
	for i := range choices {
		if choices[i].Name == f.name {
			return &choices[i], nil
		}
	}
	return nil, io.EOF
}

// baseConfig is a valid configuration that never touches the network on its own
func baseConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{CurrentVersion: "1.0.0", PackageID: "com.example.app"},
		Check:   config.CheckConfig{Provider: "playStore", IgnoreErrors: true, Language: "en"},
		Logging: config.LoggingConfig{Level: "info"},
	}
}
