// Package httputil provides shared HTTP helpers for API clients.
//
// The package implements bounded retry with exponential backoff. Transient
// failures (network errors, 5xx responses) are wrapped in [RetryableError]
// by callers; everything else fails immediately. The pipeline is re-invoked
// wholesale by an external scheduler, so a handful of attempts per request
// is all the resilience this tool carries.
package httputil
