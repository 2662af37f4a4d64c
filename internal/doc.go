// Package internal contains private implementation details for the sweep module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - targets: Target bucket resolution and filtering
//   - paginate: Lazy object-key listing for a single bucket
//   - deleter: Bounded multi-object delete calls
//   - worker: Per-bucket processing pipeline
//   - pool: Bounded fan-out across buckets
//   - validation: Input validation logic
package internal
