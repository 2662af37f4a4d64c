// Package s3sweep bulk-deletes objects from S3 buckets, optionally
// removing the emptied buckets, across many buckets in parallel.
package s3sweep

import (
	"context"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/errors"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/internal/s3api"
	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

// Client wraps the AWS S3 client together with the filesystem used for
// reading run inputs such as a buckets file.
type Client struct {
	// s3Client is the underlying AWS SDK S3 client
	s3Client s3api.S3API

	// config holds the AWS configuration
	config aws.Config

	// fs is the filesystem abstraction for run inputs
	fs fs.Filesystem
}

// New creates a new client with the provided options.
// Credentials come from the default chain, optionally narrowed to a
// shared-config profile.
//
// Example:
//
//	client, err := s3sweep.New(
//	    s3sweep.WithProfile("staging"),
//	    s3sweep.WithRegion("us-west-2"),
//	)
func New(opts ...sweeptypes.Option) (*Client, error) {
	clientCfg := &sweeptypes.ClientConfig{
		MaxRetries: 3,
		Timeout:    0,
	}

	for _, opt := range opts {
		opt(clientCfg)
	}

	var cfg aws.Config
	var err error

	if clientCfg.CustomAWSConfig != nil {
		cfg = *clientCfg.CustomAWSConfig
	} else {
		var loadOpts []func(*config.LoadOptions) error
		if clientCfg.Profile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(clientCfg.Profile))
		}
		cfg, err = config.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, errors.NewError("client initialization", err)
		}
	}

	if clientCfg.Region != "" {
		cfg.Region = clientCfg.Region
	} else if cfg.Region == "" {
		cfg.Region = "us-east-1" // AWS default region
	}

	if clientCfg.MaxRetries > 0 {
		cfg.RetryMaxAttempts = clientCfg.MaxRetries
	}
	if clientCfg.RetryMode != "" {
		cfg.RetryMode = aws.RetryMode(clientCfg.RetryMode)
	}

	var s3Opts []func(*s3.Options)

	if clientCfg.Endpoint != "" {
		endpoint := clientCfg.Endpoint
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	if clientCfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	switch {
	case clientCfg.CustomHTTPClient != nil:
		httpClient := clientCfg.CustomHTTPClient
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	case clientCfg.Timeout > 0:
		httpClient := &http.Client{
			Timeout: clientCfg.Timeout,
		}
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.HTTPClient = httpClient
		})
	}

	return &Client{
		s3Client: s3.NewFromConfig(cfg, s3Opts...),
		config:   cfg,
		fs:       billy.NewOSFS("/"),
	}, nil
}

// NewWithClient creates a client around a custom S3API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(s3Client s3api.S3API) *Client {
	return &Client{
		s3Client: s3Client,
		config:   aws.Config{},
		fs:       billy.NewOSFS("/"),
	}
}

// SetFilesystem sets the filesystem used for reading run inputs.
// Useful for testing with an in-memory filesystem.
func (c *Client) SetFilesystem(filesystem fs.Filesystem) {
	c.fs = filesystem
}

// API exposes the underlying S3 API client.
func (c *Client) API() s3api.S3API {
	return c.s3Client
}
