package provider

import (
	"context"
	"io"
	"strings"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"

	storeaws "storecheck/pkg/aws"
	"storecheck/pkg/errors"
	"storecheck/pkg/logging"
	"storecheck/pkg/policy"
)

// ReleaseManifest is the document an S3 release channel publishes. JSON manifests decode
// too since YAML is a superset. Packages holds per-app entries for a shared manifest.
type ReleaseManifest struct {
	ReleaseEntry `yaml:",inline"`
	Packages     map[string]ReleaseEntry `yaml:"packages"`
}

// ReleaseEntry describes one application's latest release
type ReleaseEntry struct {
	Version     string `yaml:"version"`
	StoreURL    string `yaml:"store_url"`
	ReleaseDate string `yaml:"release_date"`
}

// S3Provider reads a release manifest object from S3.
type S3Provider struct {
	Client storeaws.S3ObjectAPI
	Bucket string
	Key    string
	Logger *logging.Logger
}

// NewS3 creates a provider for bucket/key
func NewS3(client storeaws.S3ObjectAPI, bucket, key string, logger *logging.Logger) *S3Provider {
	return &S3Provider{
		Client: client,
		Bucket: bucket,
		Key:    key,
		Logger: logger,
	}
}

func (p *S3Provider) GetVersion(ctx context.Context, opts LookupOptions) (*Result, error) {
	res, err := p.lookup(ctx, opts)
	return policy.Apply(policy.Policy{IgnoreErrors: opts.ignoreErrors(), Logger: p.Logger}, S3+" lookup", res, err)
}

func (p *S3Provider) lookup(ctx context.Context, opts LookupOptions) (*Result, error) {
	if p.Client == nil || p.Bucket == "" || p.Key == "" {
		return nil, errors.NewConfigError("s3 provider needs a client, a bucket and a key", nil)
	}

	location := "s3://" + p.Bucket + "/" + p.Key
	logging.OrNoOp(p.Logger).Debug("Reading release manifest", "location", location)

	out, err := p.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: awssdk.String(p.Bucket),
		Key:    awssdk.String(p.Key),
	})
	if err != nil {
		return nil, errors.NewTransportError("failed to get release manifest", errors.NewAWSError(location, err)).
			WithContext("location", location)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, maxBodySize))
	if err != nil {
		return nil, errors.NewTransportError("failed to read release manifest", err).WithContext("location", location)
	}

	var manifest ReleaseManifest
	if err := yaml.Unmarshal(body, &manifest); err != nil {
		return nil, errors.NewParseError("release manifest is not valid YAML or JSON", string(body)).
			WithContext("location", location)
	}

	entry := manifest.ReleaseEntry
	if pkg, ok := manifest.Packages[opts.PackageID]; ok && opts.PackageID != "" {
		entry = pkg
	}

	if strings.TrimSpace(entry.Version) == "" {
		return nil, errors.NewParseError("release manifest has no version", string(body)).
			WithContext("location", location)
	}

	res := &Result{
		Version:  strings.TrimSpace(entry.Version),
		StoreURL: entry.StoreURL,
	}
	if released, ok := parseManifestDate(entry.ReleaseDate); ok {
		res.ReleaseDate = &released
	}
	return res, nil
}

func parseManifestDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
