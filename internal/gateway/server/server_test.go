package server

import (
	"context"
	"net/http"
	"testing"
)

func TestNew_AddrPassthrough(t *testing.T) {
	s := New(":9099", http.NewServeMux())
	if s.Addr() != ":9099" {
		t.Fatalf("addr = %q", s.Addr())
	}
}

func TestShutdown_BeforeStart(t *testing.T) {
	s := New(":9099", http.NewServeMux())
	if err := s.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown of idle server: %v", err)
	}
}
