// Package ratelimit paces outgoing requests with a fixed minimum interval.
// The delay is static; there is no adaptive backoff.
package ratelimit
