package httpserver

import (
	"net/http"
	"time"
)

// New builds the ops HTTP server. Ops endpoints answer quickly, so the write
// timeout is short.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
