// Package validation provides centralized input validation logic.
// This includes bucket name validation against AWS S3 naming rules.
//
// Bucket targets are validated before being sent to AWS so malformed
// names fail fast without a network round trip.
package validation
