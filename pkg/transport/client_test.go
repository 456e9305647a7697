package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dukex/flyout/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dropConnection closes the underlying connection so the client never sees a response.
func dropConnection(w http.ResponseWriter) {
	hj, ok := w.(http.Hijacker)
	if !ok {
		panic("response writer does not support hijacking")
	}

	conn, _, err := hj.Hijack()
	if err != nil {
		panic(err)
	}

	_ = conn.Close()
}

// flakyServer drops the first `failures` connections and answers with status/body afterwards.
func flakyServer(t *testing.T, failures int32, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := calls.Add(1)
		if n <= failures {
			dropConnection(w)

			return
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, &calls
}

func TestClient_Post_Success(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "flyout/1.0", r.Header.Get("User-Agent"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jordan", body["guestName"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"confirmation":"F-123"}`))
	}))
	defer server.Close()

	client := transport.NewClient()

	outcome, err := client.Post(context.Background(), server.URL, map[string]any{"guestName": "Jordan"},
		transport.RetryConfig{Attempts: 2})
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, http.StatusOK, outcome.StatusCode)
	assert.Equal(t, map[string]any{"confirmation": "F-123"}, outcome.ParsedBody)
	assert.JSONEq(t, `{"confirmation":"F-123"}`, outcome.RawBody)
	assert.Equal(t, 1, outcome.Attempts)
}

func TestClient_Post_NonJSONBody(t *testing.T) {
	t.Parallel()

	server, _ := flakyServer(t, 0, http.StatusCreated, "booked, see you soon")

	outcome, err := transport.NewClient().Post(context.Background(), server.URL, map[string]any{}, transport.RetryConfig{Attempts: 1})
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, http.StatusCreated, outcome.StatusCode)
	assert.Nil(t, outcome.ParsedBody)
	assert.Equal(t, "booked, see you soon", outcome.RawBody)
	assert.Equal(t, "booked, see you soon", outcome.Value())
}

func TestClient_Post_NonSuccessStatusIsNotRetried(t *testing.T) {
	t.Parallel()

	server, calls := flakyServer(t, 0, http.StatusConflict, `{"error":"sold out"}`)

	outcome, err := transport.NewClient().Post(context.Background(), server.URL, map[string]any{}, transport.RetryConfig{Attempts: 3})
	require.NoError(t, err)

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, http.StatusConflict, outcome.StatusCode)
	assert.Equal(t, map[string]any{"error": "sold out"}, outcome.ParsedBody)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1, outcome.Attempts)
}

func TestClient_Post_TransportFailureIsRetried(t *testing.T) {
	t.Parallel()

	server, calls := flakyServer(t, 1, http.StatusOK, `{"ok":true}`)

	outcome, err := transport.NewClient().Post(context.Background(), server.URL, map[string]any{}, transport.RetryConfig{Attempts: 2})
	require.NoError(t, err)

	assert.True(t, outcome.Succeeded)
	assert.Equal(t, 2, outcome.Attempts)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Post_RetriesExhaustedBeforeSuccess(t *testing.T) {
	t.Parallel()

	// Two drops then a success: with two attempts the success is never reached.
	server, calls := flakyServer(t, 2, http.StatusOK, `{"ok":true}`)

	outcome, err := transport.NewClient().Post(context.Background(), server.URL, map[string]any{}, transport.RetryConfig{Attempts: 2})
	require.Error(t, err)
	assert.Nil(t, outcome)

	assert.True(t, errors.Is(err, transport.ErrTransport))
	assert.True(t, transport.IsTransportError(err))

	var transportErr *transport.Error
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 2, transportErr.Attempts)
	assert.Equal(t, server.URL, transportErr.Endpoint)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_Post_ConnectionRefused(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := transport.NewClient().Post(context.Background(), url, map[string]any{}, transport.RetryConfig{Attempts: 2})
	require.Error(t, err)

	var transportErr *transport.Error
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, 2, transportErr.Attempts)
}

func TestClient_Post_EncodeFailure(t *testing.T) {
	t.Parallel()

	_, err := transport.NewClient().Post(context.Background(), "http://127.0.0.1:1", map[string]any{"bad": make(chan int)},
		transport.RetryConfig{Attempts: 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, transport.ErrEncodeRequest))
	assert.False(t, transport.IsTransportError(err))
}

func TestClient_Post_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	client := transport.NewClient(transport.WithTimeout(50 * time.Millisecond))

	_, err := client.Post(context.Background(), server.URL, map[string]any{}, transport.RetryConfig{Attempts: 1})
	require.Error(t, err)
	assert.True(t, transport.IsTransportError(err))
}
