// Package pool coordinates bucket processing across a bounded set of
// concurrent workers.
//
// Buckets are dispatched in listing order but complete in whatever order
// the workers finish; every dispatched bucket yields exactly one outcome,
// collected without lost updates for the final run summary.
package pool
