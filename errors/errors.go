// Package errors provides error types and handling for bulk S3 sweep operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a sweep operation error with context about the operation that failed.
// It wraps the underlying AWS SDK error with additional context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "listTargets", "deleteBatch")
	Op string

	// Bucket is the S3 bucket name (if applicable)
	Bucket string

	// Key is the S3 object key (if applicable)
	Key string

	// Err is the underlying error from the AWS SDK or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("sweep.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("sweep.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("sweep.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("sweep.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// Sentinel errors for the sweep failure taxonomy.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidConfig indicates that the resolved run configuration is invalid.
	// This is fatal and is reported before any deletion starts.
	ErrInvalidConfig = errors.New("sweep: invalid configuration")

	// ErrListing indicates that the account-wide bucket listing failed.
	// Fatal for the whole run unless targets came from a buckets file.
	ErrListing = errors.New("sweep: bucket listing failed")

	// ErrPagination indicates that an object listing failed mid-pagination.
	// Scoped to a single bucket; keys already yielded keep partial credit.
	ErrPagination = errors.New("sweep: object pagination failed")

	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("sweep: invalid input")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("sweep: invalid bucket name")

	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("sweep: bucket not found")

	// ErrBucketNotEmpty indicates that the bucket is not empty and cannot be deleted
	ErrBucketNotEmpty = errors.New("sweep: bucket not empty")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("sweep: access denied")
)

// IsInvalidConfig checks if an error indicates an invalid run configuration.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsInvalidConfig(err error) bool {
	return errors.Is(err, ErrInvalidConfig)
}

// IsListing checks if an error indicates a failed bucket listing.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsListing(err error) bool {
	return errors.Is(err, ErrListing)
}

// IsPagination checks if an error indicates a failed object pagination.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsPagination(err error) bool {
	return errors.Is(err, ErrPagination)
}

// IsBucketNotFound checks if an error indicates that a bucket was not found.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsBucketNotEmpty checks if an error indicates that a bucket still holds objects.
// This is a convenience function that handles both sentinel errors and wrapped errors.
func IsBucketNotEmpty(err error) bool {
	return errors.Is(err, ErrBucketNotEmpty)
}
