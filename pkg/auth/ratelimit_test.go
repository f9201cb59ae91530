package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginLimiter_Wrap(t *testing.T) {
	limiter := NewLoginLimiter(3)
	defer limiter.Stop()
	handler := limiter.Wrap(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// given a single client hammering the endpoint
	statuses := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:51234"
		rec := httptest.NewRecorder()
		handler(rec, req)
		statuses = append(statuses, rec.Code)
	}

	// then the burst is allowed and the excess request is rejected
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)

	// other clients are unaffected
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.2:51234"
	rec := httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginLimiter_EvictIdle(t *testing.T) {
	limiter := NewLoginLimiter(3)
	defer limiter.Stop()

	// given one stale client and one recent client
	limiter.allow("10.0.0.1")
	limiter.allow("10.0.0.2")
	limiter.mu.Lock()
	limiter.clients["10.0.0.1"].lastSeen = time.Now().Add(-time.Hour)
	limiter.mu.Unlock()

	// when
	limiter.evictIdle()

	// then
	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	assert.NotContains(t, limiter.clients, "10.0.0.1")
	assert.Contains(t, limiter.clients, "10.0.0.2")
}

func TestLoginLimiter_Stop(t *testing.T) {
	limiter := NewLoginLimiter(3)

	limiter.Stop()
	limiter.Stop()
}
