package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dghubble/go-twitter/twitter"
	"go.uber.org/zap"
)

// rewriteTransport redirects every request to a local httptest server so
// that code talking to the fixed twitter API host can be exercised offline.
type rewriteTransport struct {
	base   http.RoundTripper
	target string
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	req.URL.Host = strings.TrimPrefix(rt.target, "http://")
	return rt.base.RoundTrip(req)
}

// newTestBot wires a Bot against a fake twitter API served by handler. The
// state store lives in a temp dir and the logger is silenced.
func newTestBot(t *testing.T, handler http.Handler) (*Bot, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient := &http.Client{
		Transport: rewriteTransport{base: http.DefaultTransport, target: srv.URL},
	}
	store, err := LoadStore(t.TempDir() + "/db.json")
	if err != nil {
		t.Fatal(err)
	}
	return &Bot{
		client: twitter.NewClient(httpClient),
		store:  store,
		http:   &http.Client{},
		logger: zap.NewNop(),
		self:   &twitter.User{ID: 42, IDStr: "42", Name: "Memo Bot", ScreenName: "memobot"},
	}, srv
}
