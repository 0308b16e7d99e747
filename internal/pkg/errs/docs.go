// Package errs provides the standard error types shared by the dispatch engine.
//
// Every type follows the same shape:
//   - a sentinel error (e.g. ErrValueIsRequired) usable with errors.Is
//   - a struct carrying the offending parameter and an optional cause
//   - constructors with and without a cause
//   - Unwrap returning the sentinel so callers never need type assertions
//
// Domain packages wrap these for validation failures, repositories return
// ObjectNotFoundError for unknown ids and VersionIsInvalidError when an
// optimistic concurrency check fails. Inbound adapters classify errors by
// sentinel to pick a response code.
package errs
