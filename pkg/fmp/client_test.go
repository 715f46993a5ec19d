package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-playground/assert/v2"
)

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		apiKey:     "test-key",
		baseURL:    srv.URL + "/api/",
		httpClient: srv.Client(),
	}
}

func TestFetch(t *testing.T) {
	var gotPath string
	var gotQuery url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"symbol":"AAPL","price":189.5}]`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	raw, err := client.Fetch(context.Background(), "v4/economic", url.Values{"name": {"GDP"}})

	assert.Equal(t, nil, err)
	assert.Equal(t, `[{"symbol":"AAPL","price":189.5}]`, string(raw))
	assert.Equal(t, "/api/v4/economic", gotPath)
	assert.Equal(t, "GDP", gotQuery.Get("name"))
	assert.Equal(t, "test-key", gotQuery.Get("apikey"))
}

func TestFetch_DoesNotMutateParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	params := url.Values{"symbol": {"AAPL"}}
	_, err := newTestClient(srv).Fetch(context.Background(), "v4/price-target", params)

	assert.Equal(t, nil, err)
	assert.Equal(t, "", params.Get("apikey"))
}

func TestFetch_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"Error Message":"Invalid API KEY."}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Fetch(context.Background(), "v3/quote/AAPL", nil)

	assert.NotEqual(t, nil, err)
}

func TestFetch_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Fetch(context.Background(), "v3/quote/AAPL", nil)

	assert.NotEqual(t, nil, err)
}
