package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bookfinder/internal/logging"
)

const (
	defaultMaxAttempts    = 3
	defaultInitialDelay   = 500 * time.Millisecond
	defaultBackoffFactor  = 1.5
	defaultAttemptTimeout = 30 * time.Second
	defaultMaxRetryAfter  = 10 * time.Second
	maxBodyBytes          = 8 << 20
)

// Policy bounds the retry behaviour of one request.
type Policy struct {
	MaxAttempts    int
	InitialDelay   time.Duration
	BackoffFactor  float64
	AttemptTimeout time.Duration
	// MaxRetryAfter caps how long a server supplied Retry-After may pause us.
	MaxRetryAfter time.Duration
}

// DefaultPolicy returns the repository retry defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    defaultMaxAttempts,
		InitialDelay:   defaultInitialDelay,
		BackoffFactor:  defaultBackoffFactor,
		AttemptTimeout: defaultAttemptTimeout,
		MaxRetryAfter:  defaultMaxRetryAfter,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}
	if p.InitialDelay < 0 {
		p.InitialDelay = 0
	}
	if p.BackoffFactor < 1 {
		p.BackoffFactor = 1
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = defaultAttemptTimeout
	}
	if p.MaxRetryAfter <= 0 {
		p.MaxRetryAfter = defaultMaxRetryAfter
	}
	return p
}

// Request describes the GET issued on every attempt.
type Request struct {
	URL    string
	Header http.Header
	Policy Policy
}

// Limiter paces outbound attempts. *rate.Limiter satisfies it.
type Limiter interface {
	Wait(ctx context.Context) error
}

// Executor performs retry-wrapped GET requests. It is safe for concurrent use.
type Executor struct {
	httpClient *http.Client
	limiter    Limiter
	sleeper    func(context.Context, time.Duration) error
	logger     *slog.Logger
}

// Option customizes the executor.
type Option func(*Executor)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Executor) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// WithLimiter paces every attempt through the supplied limiter.
func WithLimiter(limiter Limiter) Option {
	return func(e *Executor) {
		e.limiter = limiter
	}
}

// WithSleeper overrides how backoff pauses are performed (useful for tests).
func WithSleeper(sleeper func(context.Context, time.Duration) error) Option {
	return func(e *Executor) {
		if sleeper != nil {
			e.sleeper = sleeper
		}
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// NewExecutor constructs an executor. The default HTTP client carries no
// overall timeout; each attempt is bounded by Policy.AttemptTimeout instead.
func NewExecutor(opts ...Option) *Executor {
	e := &Executor{
		httpClient: &http.Client{},
		sleeper:    sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	return e
}

// attemptOutcome is the classification of one attempt.
type attemptOutcome struct {
	body       []byte
	statusCode int
	retryAfter time.Duration
	kind       Kind
	err        error
}

// Execute performs req with retries and hands the successful body to parse.
// A parse error is treated as "no usable result": it is retried while attempts
// remain and reported as KindParsingFailed afterwards.
func Execute[T any](ctx context.Context, e *Executor, req Request, parse func([]byte) (T, error)) (T, error) {
	var zero T
	if e == nil {
		return zero, errors.New("fetch: executor is nil")
	}
	if parse == nil {
		return zero, errors.New("fetch: parse function is nil")
	}
	policy := req.Policy.normalized()
	delay := policy.InitialDelay
	logger := e.logger.With(logging.String("url", redactURL(req.URL)))

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, &Error{Kind: KindCanceled, Attempts: attempt - 1, URL: req.URL, Err: err}
		}
		outcome := e.attempt(ctx, req, policy)
		if outcome.kind == "" {
			value, err := parse(outcome.body)
			if err == nil {
				return value, nil
			}
			outcome.kind = KindParsingFailed
			outcome.err = err
		}

		terminal := &Error{
			Kind:       outcome.kind,
			StatusCode: outcome.statusCode,
			Attempts:   attempt,
			URL:        req.URL,
			Err:        outcome.err,
		}
		if !outcome.kind.IsRetryable() || attempt >= policy.MaxAttempts {
			return zero, terminal
		}

		pause := delay
		if outcome.kind == KindRateLimited {
			pause = max(delay, min(outcome.retryAfter, policy.MaxRetryAfter))
		}
		logger.Debug("retrying catalog request",
			logging.String(logging.FieldEventType, "fetch_retry"),
			logging.String("kind", string(outcome.kind)),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", policy.MaxAttempts),
			logging.Duration("delay", pause),
		)
		if err := e.sleeper(ctx, pause); err != nil {
			return zero, &Error{Kind: KindCanceled, Attempts: attempt, URL: req.URL, Err: err}
		}
		delay = time.Duration(float64(delay) * policy.BackoffFactor)
	}
}

func (e *Executor) attempt(ctx context.Context, req Request, policy Policy) attemptOutcome {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return attemptOutcome{kind: KindCanceled, err: ctx.Err()}
			}
			return attemptOutcome{kind: KindNetwork, err: fmt.Errorf("rate limiter: %w", err)}
		}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, policy.AttemptTimeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, req.URL, nil)
	if err != nil {
		return attemptOutcome{kind: KindRequestFailed, err: fmt.Errorf("build request: %w", err)}
	}
	for key, values := range req.Header {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}
	if httpReq.Header.Get("Accept") == "" {
		httpReq.Header.Set("Accept", "application/json")
	}

	requestStart := time.Now()
	resp, err := e.httpClient.Do(httpReq)
	latency := time.Since(requestStart)
	if err != nil {
		if ctx.Err() != nil {
			return attemptOutcome{kind: KindCanceled, err: ctx.Err()}
		}
		return attemptOutcome{kind: KindNetwork, err: fmt.Errorf("execute request (latency=%v): %w", latency, err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return attemptOutcome{kind: KindCanceled, err: ctx.Err()}
		}
		return attemptOutcome{kind: KindNetwork, statusCode: resp.StatusCode, err: fmt.Errorf("read body: %w", err)}
	}

	return classify(resp, body)
}

func classify(resp *http.Response, body []byte) attemptOutcome {
	status := resp.StatusCode
	switch {
	case status >= 200 && status < 300:
		if len(bytes.TrimSpace(body)) == 0 {
			return attemptOutcome{statusCode: status, kind: KindEmptyResponse, err: errors.New("empty response body")}
		}
		return attemptOutcome{statusCode: status, body: body}
	case status == http.StatusTooManyRequests:
		retryAfter, _ := parseRetryAfter(resp.Header.Get("Retry-After"))
		return attemptOutcome{statusCode: status, kind: KindRateLimited, retryAfter: retryAfter, err: statusError(status, body)}
	case status >= 500 && status < 600:
		return attemptOutcome{statusCode: status, kind: KindServerError, err: statusError(status, body)}
	default:
		return attemptOutcome{statusCode: status, kind: KindRequestFailed, err: statusError(status, body)}
	}
}

func statusError(status int, body []byte) error {
	snippet := strings.TrimSpace(string(body))
	const limit = 160
	if runes := []rune(snippet); len(runes) > limit {
		snippet = string(runes[:limit]) + "..."
	}
	if snippet == "" {
		return fmt.Errorf("http %d", status)
	}
	return fmt.Errorf("http %d: %s", status, snippet)
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseRetryAfter(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}
	if when, err := http.ParseTime(value); err == nil {
		delay := time.Until(when)
		if delay < 0 {
			return 0, false
		}
		return delay, true
	}
	return 0, false
}

// redactURL drops credential-bearing query parameters from log output.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := parsed.Query()
	changed := false
	for _, key := range []string{"key", "api_key"} {
		if query.Has(key) {
			query.Set(key, "REDACTED")
			changed = true
		}
	}
	if changed {
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}
