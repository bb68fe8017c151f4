package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playforge/walletd/internal/transport/httpapi/middleware"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := middleware.NewJWTService("test-secret")

	token, err := svc.GenerateToken("ops:alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops:alice", claims.Actor)
	assert.Equal(t, "ops:alice", claims.Subject)
	assert.Equal(t, "walletd", claims.Issuer)
}

func TestJWTService_RejectsBadTokens(t *testing.T) {
	svc := middleware.NewJWTService("test-secret")

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := middleware.NewJWTService("other-secret")
		token, err := other.GenerateToken("ops:alice")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := &middleware.Claims{
			Actor: "ops:alice",
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "ops:alice",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("unsigned algorithm", func(t *testing.T) {
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &middleware.Claims{Actor: "ops:alice"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err, "alg=none must never validate")
	})
}

func TestAuthMiddleware(t *testing.T) {
	svc := middleware.NewJWTService("test-secret")

	var gotActor string
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor, gotOK = middleware.ActorFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	protected := middleware.Auth(svc)(next)

	serve := func(authHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/wallets", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token passes and exposes the actor", func(t *testing.T) {
		token, err := svc.GenerateToken("ops:alice")
		require.NoError(t, err)

		rec := serve("Bearer " + token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, gotOK)
		assert.Equal(t, "ops:alice", gotActor)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := serve("")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "UNAUTHORIZED")
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := serve("Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		rec := serve("Bearer invalid")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
