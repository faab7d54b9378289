// internal/platform/httpclient/httpclient_test.go
package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"legitscan/internal/platform/errors"
	"legitscan/internal/platform/logx"
	"legitscan/internal/testutil"
)

func testClient(maxRetries int) *Client {
	cfg := DefaultConfig()
	cfg.MaxRetries = maxRetries
	cfg.RetryBackoff = time.Millisecond
	return New(cfg, logx.NewSilent())
}

func TestFetchBody_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.Header.Get("User-Agent"), "legitscan/1.0", "user agent")
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	body, err := testClient(0).FetchBody(context.Background(), srv.URL, nil)
	testutil.AssertNoError(t, err, "fetch")
	testutil.AssertEqual(t, string(body), "hello", "body")
}

func TestFetchBody_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(0).FetchBody(context.Background(), srv.URL, nil)
	testutil.AssertErrorIs(t, err, errors.ErrNotFound, "404 maps to ErrNotFound")
}

func TestRequest_RetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := testClient(3).FetchBody(context.Background(), srv.URL, nil)
	testutil.AssertNoError(t, err, "succeeds after retries")
	testutil.AssertEqual(t, string(body), "ok", "body")
	testutil.AssertEqual(t, calls.Load(), int32(3), "two 503s then success")
}

func TestRequest_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(3).FetchBody(context.Background(), srv.URL, nil)
	testutil.AssertError(t, err, "4xx is an error")
	testutil.AssertEqual(t, calls.Load(), int32(1), "client errors are not retried")
}

func TestPostJSON_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.Method, http.MethodPost, "method")
		testutil.AssertEqual(t, r.Header.Get("Content-Type"), "application/json", "content type")
		w.Write([]byte(`{"answer": 42}`))
	}))
	defer srv.Close()

	var out struct {
		Answer int `json:"answer"`
	}
	err := testClient(0).PostJSON(context.Background(), srv.URL, map[string]string{"q": "x"}, &out, nil)
	testutil.AssertNoError(t, err, "post")
	testutil.AssertEqual(t, out.Answer, 42, "decoded response")
}

func TestPostJSON_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	var out map[string]any
	err := testClient(0).PostJSON(context.Background(), srv.URL, nil, &out, nil)
	testutil.AssertErrorIs(t, err, errors.ErrUnauthorized, "403 maps to ErrUnauthorized")
}

func TestPostJSON_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	var out map[string]any
	err := testClient(0).PostJSON(context.Background(), srv.URL, nil, &out, nil)
	testutil.AssertErrorIs(t, err, errors.ErrInvalidResponse, "undecodable body")
}
