package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotCookie, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<div class="timelineV2Event"></div>`))
	}))
	defer srv.Close()

	f := New(WithCookie("session=abc"), WithClient(srv.Client()))
	result, err := f.Fetch(context.Background(), srv.URL+"/timeline")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, srv.URL+"/timeline", result.URL)
	assert.Contains(t, result.HTML, "timelineV2Event")
	assert.Equal(t, "session=abc", gotCookie)
	assert.Equal(t, defaultUserAgent, gotAgent)
}

func TestHTTPFetcher_Fetch_NoCookieByDefault(t *testing.T) {
	var hadCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadCookie = r.Header["Cookie"]
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.False(t, hadCookie)
}

func TestHTTPFetcher_Fetch_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "login required", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := New().Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 401")
}

func TestHTTPFetcher_Fetch_Canceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}
