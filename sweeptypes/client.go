package sweeptypes

import (
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ClientConfig holds the configuration for building the S3 client.
type ClientConfig struct {
	// Profile is the shared-config credential profile to load.
	Profile string

	// Region is the AWS region to use.
	Region string

	// Endpoint is a custom S3 endpoint URL, for S3-compatible services
	// or local testing.
	Endpoint string

	// MaxRetries is the maximum number of attempts per request.
	MaxRetries int

	// RetryMode selects the SDK retry strategy ("standard" or "adaptive").
	RetryMode string

	// Timeout bounds individual HTTP requests. Zero means no timeout.
	Timeout time.Duration

	// ForcePathStyle switches to path-style addressing, required by most
	// S3-compatible services.
	ForcePathStyle bool

	// CustomHTTPClient overrides the HTTP client used for requests.
	CustomHTTPClient *http.Client

	// CustomAWSConfig bypasses the default configuration loading entirely.
	CustomAWSConfig *aws.Config
}

// Option is a functional option for configuring the client.
type Option func(*ClientConfig)
