package server

import (
	"math/rand"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"photoguess/internal/config"
	"photoguess/internal/storage"
)

func newServer(t *testing.T) (*Server, *storage.Memory) {
	t.Helper()
	blobs := storage.NewMemory()
	srv := New(nil, blobs, config.Default())
	srv.store = NewStoreWithRand(rand.New(rand.NewSource(1)))
	return srv, blobs
}

func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("skipping test; listen unavailable: %v", err)
	}
	ts := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	ts.Start()
	return ts
}
