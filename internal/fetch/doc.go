// Package fetch executes a single catalog HTTP GET with bounded retries,
// exponential backoff, and rate-limit aware pausing.
//
// # State Machine
//
// Each call to Execute moves through Attempting, then Success, a retryable
// failure followed by Backoff and another attempt, or a terminal failure:
//
//   - 2xx with a body the parser accepts: success
//   - 2xx with a body the parser rejects: retry, then KindParsingFailed
//   - 2xx with an empty body: KindEmptyResponse, never retried
//   - 429: retry, then KindRateLimited
//   - other 4xx: KindRequestFailed after exactly one attempt
//   - 5xx: retry, then KindServerError
//   - transport failure or per-attempt timeout: retry, then KindNetwork
//   - caller cancellation: KindCanceled immediately
//
// Retries are strictly sequential. The executor sleeps the current delay before
// each retry and multiplies it by the backoff factor afterwards. A Retry-After
// header on a 429 extends the pause when it asks for longer.
//
// # Testing
//
// WithSleeper replaces real sleeps so tests can observe the backoff schedule
// without waiting on the wall clock.
package fetch
