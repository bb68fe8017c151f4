package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/playforge/walletd/internal/transport/httpapi/middleware"
)

func rateLimitedHandler(rps rate.Limit, burst int) http.Handler {
	rl := middleware.NewRateLimiter(rps, burst)
	return rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func hit(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// Connections from one host must share a bucket regardless of their source
// port, so reconnecting cannot reset the limit.
func TestRateLimiter_BucketsPerHost(t *testing.T) {
	handler := rateLimitedHandler(1, 1)

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:40001").Code)
	rec := hit(handler, "10.0.0.1:40002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t,
		`{"error":{"code":"RATE_LIMITED","message":"rate limit exceeded, please try again later"}}`,
		rec.Body.String())

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.2:40003").Code,
		"a different host gets its own bucket")
}

// RealIP rewrites RemoteAddr to a bare host with no port; the limiter must
// still key on it.
func TestRateLimiter_BareHostRemoteAddr(t *testing.T) {
	handler := rateLimitedHandler(1, 1)

	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.3").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.3").Code)
}

func TestRateLimiter_BurstThenThrottle(t *testing.T) {
	handler := rateLimitedHandler(1, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.4:40010").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.4:40010").Code)
}
