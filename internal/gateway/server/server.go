// Package server owns the gateway's HTTP front. h2c lets browser clients
// and HTTP/2 tooling share one cleartext port, which is how the editor
// websocket and the REST surface are served together.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

type Server struct {
	httpServer *http.Server
}

func New(port string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    port,
			Handler: h2c.NewHandler(handler, &http2.Server{}),
			// Analysis requests and editor sockets are long-lived, so no
			// blanket read/write deadlines; only the header read gets one.
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Addr returns the listen address the server was built with.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) Start() error {
	log.Printf("threatvisor gateway listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
