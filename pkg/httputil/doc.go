// Package httputil fetches remote geometry inputs.
//
// Inputs given as http:// or https:// URLs are downloaded with [Fetch]
// instead of read from disk. Transient failures are retried:
//
//   - network errors
//   - 5xx server errors
//   - 429 rate limit responses
//
// [Retry] doubles the delay after each failed attempt and gives up early
// when the context is cancelled. Other errors, including 4xx responses,
// fail at once.
//
//	data, err := httputil.Fetch(ctx, nil, "https://example.com/roads.geojson")
//
// Responses larger than [MaxBody] are rejected.
package httputil
