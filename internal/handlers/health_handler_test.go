package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		ping   error
		status int
		store  string
	}{
		{"reports ok when the store answers", nil, http.StatusOK, "ok"},
		{"reports 503 when the store is down", errors.New("connection refused"), http.StatusServiceUnavailable, "unreachable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(pingerFunc(func(context.Context) error { return tt.ping }))
			r := gin.New()
			r.GET("/health", handler.Health)

			rec := doRequest(r, "GET", "/health", "")

			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			if got := parseJSON(t, rec)["store"]; got != tt.store {
				t.Errorf("expected store %q, got %v", tt.store, got)
			}
		})
	}
}
