package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeHealthChecker(t *testing.T) {
	t.Run("no checks registered reports healthy", func(t *testing.T) {
		checker := NewCompositeHealthChecker("v1")
		status := checker.Check(context.Background())

		assert.True(t, status.Healthy)
		assert.True(t, status.Ready)
		assert.Equal(t, "v1", status.Version)
	})

	t.Run("all checks passing", func(t *testing.T) {
		checker := NewCompositeHealthChecker("v1")
		checker.AddCheck("database", func(ctx context.Context) error { return nil })
		checker.AddCheck("cache", func(ctx context.Context) error { return nil })

		status := checker.Check(context.Background())

		assert.True(t, status.Healthy)
		require.Len(t, status.Checks, 2)
		assert.True(t, status.Checks["database"].Healthy)
		assert.True(t, status.Checks["cache"].Healthy)
	})

	t.Run("one failing check marks unhealthy", func(t *testing.T) {
		checker := NewCompositeHealthChecker("v1")
		checker.AddCheck("database", func(ctx context.Context) error { return nil })
		checker.AddCheck("cache", func(ctx context.Context) error {
			return errors.New("connection refused")
		})

		status := checker.Check(context.Background())

		assert.False(t, status.Healthy)
		assert.False(t, status.Ready)
		assert.True(t, status.Checks["database"].Healthy)
		assert.False(t, status.Checks["cache"].Healthy)
		assert.Contains(t, status.Checks["cache"].Message, "connection refused")
		assert.Contains(t, status.Message, "cache")
	})

	t.Run("slow check hits the timeout", func(t *testing.T) {
		checker := NewCompositeHealthChecker("v1")
		checker.SetTimeout(50 * time.Millisecond)
		checker.AddCheck("slow", func(ctx context.Context) error {
			select {
			case <-time.After(time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})

		status := checker.Check(context.Background())

		assert.False(t, status.Healthy)
	})

	t.Run("removed check no longer runs", func(t *testing.T) {
		checker := NewCompositeHealthChecker("v1")
		checker.AddCheck("flaky", func(ctx context.Context) error { return errors.New("down") })
		checker.RemoveCheck("flaky")

		status := checker.Check(context.Background())

		assert.True(t, status.Healthy)
	})
}

func TestMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("security headers set", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		SecurityHeadersMiddleware(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	})

	t.Run("oversized body rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100)))
		req.ContentLength = 100

		RequestSizeLimitMiddleware(10)(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("chain applies in declared order", func(t *testing.T) {
		var order []string
		tag := func(name string) MiddlewareFunc {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		ChainHandler(okHandler, tag("outer"), tag("inner")).ServeHTTP(rec, req)

		assert.Equal(t, []string{"outer", "inner"}, order)
	})
}
