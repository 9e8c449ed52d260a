package httpclient

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

type payload struct {
	Value string `json:"value"`
}

func get(url string) RequestFunc {
	return func(c *resty.Client) (*resty.Response, error) {
		return c.R().Get(url)
	}
}

func TestFetch_SucceedsFirstAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"value":"ok"}`))
	}))
	defer srv.Close()

	c := New(3, time.Millisecond, zerolog.Nop())
	out, err := Fetch[payload](c, srv.URL, get(srv.URL))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out.Value != "ok" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls.Load())
	}
}

func TestFetch_ExhaustsRetryBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(4, time.Millisecond, zerolog.Nop())
	_, err := Fetch[payload](c, srv.URL, get(srv.URL))
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if calls.Load() != 4 {
		t.Fatalf("expected exactly 4 attempts, got %d", calls.Load())
	}

	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindRequest {
		t.Fatalf("expected request error, got %v", err)
	}
}

func TestFetch_SucceedsOnLaterAttempt(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"value":"eventually"}`))
	}))
	defer srv.Close()

	c := New(5, time.Millisecond, zerolog.Nop())
	out, err := Fetch[payload](c, srv.URL, get(srv.URL))
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if out.Value != "eventually" {
		t.Fatalf("unexpected payload: %+v", out)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", calls.Load())
	}
}

func TestFetch_DeserializationFailureCountsTowardBudget(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := New(2, time.Millisecond, zerolog.Nop())
	_, err := Fetch[payload](c, srv.URL, get(srv.URL))
	if err == nil {
		t.Fatalf("expected deserialization error")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}

	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindDeserialization {
		t.Fatalf("expected deserialization error, got %v", err)
	}
}

func TestFetch_TransportError(t *testing.T) {
	c := New(2, time.Millisecond, zerolog.Nop())
	_, err := Fetch[payload](c, "http://127.0.0.1:1", get("http://127.0.0.1:1"))
	if err == nil {
		t.Fatalf("expected transport error")
	}

	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindRequest {
		t.Fatalf("expected request error, got %v", err)
	}
}
