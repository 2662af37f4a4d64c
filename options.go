package s3sweep

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/input-output-hk/catalyst-forge-libs/aws/s3sweep/sweeptypes"
)

// WithProfile selects a shared-config credential profile.
// If not specified, the default credential chain is used as-is.
func WithProfile(profile string) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Profile = profile
	}
}

// WithRegion sets the AWS region for S3 operations.
// If not specified, uses the region from the credential chain.
func WithRegion(region string) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Region = region
	}
}

// WithMaxRetries sets the maximum number of attempts for failed requests.
// Default is 3. Set to 0 to keep the SDK default.
func WithMaxRetries(maxRetries int) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.MaxRetries = maxRetries
	}
}

// WithRetryMode sets the retry mode for AWS SDK operations.
// Options are "standard" and "adaptive". Default is "standard".
func WithRetryMode(mode string) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.RetryMode = mode
	}
}

// WithTimeout sets the timeout for individual HTTP requests.
// Default is no timeout (0). Values should be positive durations.
func WithTimeout(timeout time.Duration) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Timeout = timeout
	}
}

// WithEndpoint sets a custom S3 endpoint URL.
// This is useful for S3-compatible services or local testing with LocalStack.
func WithEndpoint(endpoint string) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.Endpoint = endpoint
	}
}

// WithForcePathStyle forces path-style URLs instead of virtual-hosted style.
// This is required for S3-compatible services that don't support virtual hosting.
// Default is false (uses virtual-hosted style).
func WithForcePathStyle(forcePathStyle bool) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.ForcePathStyle = forcePathStyle
	}
}

// WithHTTPClient allows providing a custom HTTP client.
// This gives full control over HTTP behavior including timeouts and proxies,
// and takes precedence over WithTimeout.
func WithHTTPClient(client *http.Client) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.CustomHTTPClient = client
	}
}

// WithAWSConfig allows providing a custom AWS configuration.
// This overrides the default configuration loading behavior.
// Use this when you need fine-grained control over AWS SDK configuration.
func WithAWSConfig(config *aws.Config) sweeptypes.Option {
	return func(c *sweeptypes.ClientConfig) {
		c.CustomAWSConfig = config
	}
}
