package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestRetry(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 3, 1, false},
		{"recovers", 2, true, 3, 3, false},
		{"exhausted", 5, true, 3, 3, true},
		{"permanent", 5, false, 3, 1, true},
		{"zero attempts", 0, true, 0, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(ctx, tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(errTransient)
					}
					return errTransient
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("Retry() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retry(ctx, 3, time.Second, func() error { return Retryable(errTransient) })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() error = %v, want %v", err, context.Canceled)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) != nil")
	}
	err := Retryable(errTransient)
	if !IsRetryable(err) || !errors.Is(err, errTransient) {
		t.Errorf("Retryable() = %v, want wrapped retryable error", err)
	}
	if IsRetryable(errTransient) {
		t.Error("IsRetryable() = true for plain error")
	}
}

func TestFetcherGet(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/flaky":
			if calls < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte("format-version: 1.2\n"))
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
		case "/large":
			w.Write(make([]byte, 64))
		}
	}))
	defer srv.Close()

	f := &Fetcher{Client: srv.Client(), Attempts: 3, Delay: time.Millisecond, MaxBytes: 32}
	ctx := context.Background()

	body, err := f.Get(ctx, srv.URL+"/flaky")
	if err != nil {
		t.Fatalf("Get(flaky) error = %v", err)
	}
	if string(body) != "format-version: 1.2\n" || calls != 3 {
		t.Errorf("Get(flaky) = %q after %d calls", body, calls)
	}

	calls = 0
	if _, err := f.Get(ctx, srv.URL+"/missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want %v", err, ErrNotFound)
	}
	if calls != 1 {
		t.Errorf("Get(missing) calls = %d, want 1", calls)
	}

	var se *StatusError
	if _, err := f.Get(ctx, srv.URL+"/forbidden"); !errors.As(err, &se) || se.StatusCode != http.StatusForbidden {
		t.Errorf("Get(forbidden) error = %v, want StatusError 403", err)
	}

	if _, err := f.Get(ctx, srv.URL+"/large"); err == nil {
		t.Error("Get(large) error = nil, want size error")
	}
}
