package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/templui/goaltracker/internal/ctxkeys"
)

func TestRateLimiterWindow(t *testing.T) {
	current := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return current }

	assert.True(t, rl.Allow("u1"))
	assert.True(t, rl.Allow("u1"))
	assert.False(t, rl.Allow("u1"))
	assert.True(t, rl.Allow("u2"))

	current = current.Add(61 * time.Second)
	assert.True(t, rl.Allow("u1"))
}

func TestRateLimiterSweepsIdleKeysOncePerWindow(t *testing.T) {
	current := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return current }

	rl.Allow("idle-1")
	rl.Allow("idle-2")
	assert.Len(t, rl.requests, 2)

	// Inside the window no sweep runs, so idle keys stay
	current = current.Add(30 * time.Second)
	rl.Allow("active")
	assert.Len(t, rl.requests, 3)
	swept := rl.swept

	// Once a window has passed the next request drops keys with nothing recent
	current = current.Add(45 * time.Second)
	rl.Allow("active")
	assert.Len(t, rl.requests, 1)
	assert.Contains(t, rl.requests, "active")
	assert.True(t, rl.swept.After(swept))
}

func TestRateLimitWrites(t *testing.T) {
	h := RateLimitWrites(1, time.Minute)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	request := func(userID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/goals", nil)
		if userID != "" {
			req = req.WithContext(ctxkeys.WithUserID(req.Context(), userID))
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusCreated, request("u1").Code)

	limited := request("u1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusCreated, request("u2").Code)
	assert.Equal(t, http.StatusCreated, request("").Code)
	assert.Equal(t, http.StatusTooManyRequests, request("").Code)
}

func TestRateLimitWritesDisabled(t *testing.T) {
	calls := 0
	h := RateLimitWrites(0, time.Minute)(func(w http.ResponseWriter, r *http.Request) { calls++ })

	for i := 0; i < 5; i++ {
		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/goals", nil))
	}
	assert.Equal(t, 5, calls)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4321"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Real-IP", "192.0.2.7")
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", clientIP(req))
}
