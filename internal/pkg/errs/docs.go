// Package errs provides the error vocabulary shared by the dispatch domain.
//
// Each error kind is a sentinel (ErrObjectNotFound, ErrValueIsInvalid,
// ErrValueIsOutOfRange, ErrValueIsRequired) plus a struct type that carries the
// offending parameter and an optional cause. The struct types unwrap to their
// sentinel, so callers branch with errors.Is and inspect details with errors.As.
//
// Business outcomes that are not failures (an exhausted slot, a deferred order)
// are never expressed through this package; they are plain values.
package errs
