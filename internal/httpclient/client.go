// Package httpclient provides a retrying fetch-and-decode primitive. It knows
// nothing about timetables: build a request, send it, decode the JSON body.
package httpclient

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Kind classifies fetch failures.
type Kind string

const (
	// KindRequest covers transport errors and non-2xx responses.
	KindRequest Kind = "request"
	// KindDeserialization means the body did not match the expected shape.
	KindDeserialization Kind = "deserialization"
	// KindNoData is the sentinel before any attempt has run.
	KindNoData Kind = "no_data"
)

// Error is the fetch error taxonomy.
type Error struct {
	Kind Kind
	URL  string
	Err  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRequest:
		return fmt.Sprintf("request error: %v", e.Err)
	case KindDeserialization:
		return fmt.Sprintf("deserialization error: %v", e.Err)
	default:
		return fmt.Sprintf("no data retrieved from %s", e.URL)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// RequestFunc builds and sends one attempt's request using the shared resty
// client. It must not perform side effects before it is invoked, so the same
// call can be retried verbatim.
type RequestFunc func(c *resty.Client) (*resty.Response, error)

// Client retries requests a fixed number of times with a fixed delay.
type Client struct {
	rest       *resty.Client
	maxTries   int
	retryDelay time.Duration
	log        zerolog.Logger
}

// New returns a Client performing up to maxTries attempts spaced by retryDelay.
func New(maxTries int, retryDelay time.Duration, log zerolog.Logger) *Client {
	return &Client{
		rest:       resty.New(),
		maxTries:   maxTries,
		retryDelay: retryDelay,
		log:        log,
	}
}

// Fetch performs the request built by fn until it succeeds and its body
// decodes into T, or the retry budget is exhausted. The last error is
// returned after the final attempt.
func Fetch[T any](c *Client, url string, fn RequestFunc) (T, error) {
	var zero T
	var lastErr error = &Error{Kind: KindNoData, URL: url}

	for i := 0; i < c.maxTries; i++ {
		c.log.Debug().Str("url", url).Int("try", i+1).Int("max_tries", c.maxTries).Msg("making request")

		out, err := fetchOnce[T](c, fn)
		if err == nil {
			return out, nil
		}
		lastErr = err

		c.log.Warn().
			Str("url", url).
			Int("try", i+1).
			Int("max_tries", c.maxTries).
			Dur("retry_delay", c.retryDelay).
			Err(err).
			Msg("fetch attempt failed")

		if i+1 < c.maxTries {
			time.Sleep(c.retryDelay)
		}
	}

	return zero, lastErr
}

func fetchOnce[T any](c *Client, fn RequestFunc) (T, error) {
	var out T

	resp, err := fn(c.rest)
	if err != nil {
		e := &Error{Kind: KindRequest, Err: err}
		if resp != nil && resp.Request != nil {
			e.URL = resp.Request.URL
		}
		return out, e
	}
	if resp.IsError() {
		return out, &Error{
			Kind: KindRequest,
			URL:  resp.Request.URL,
			Err:  fmt.Errorf("unexpected status %s", resp.Status()),
		}
	}

	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		var zero T
		return zero, &Error{Kind: KindDeserialization, URL: resp.Request.URL, Err: err}
	}
	return out, nil
}
