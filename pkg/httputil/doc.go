// Package httputil downloads remote documents with retries.
//
// [Fetcher.Get] issues a GET request and classifies the outcome:
//
//   - 2xx: the body is returned (bounded by MaxBytes)
//   - 404, 410: [ErrNotFound], not retried
//   - 429, 5xx, transport errors: retried with exponential backoff
//   - anything else: a [StatusError], not retried
//
// [Retry] is the backoff loop itself and works with any operation whose
// transient failures are wrapped with [Retryable].
package httputil
