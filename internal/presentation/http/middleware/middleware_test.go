package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/infrastructure/repository"
	"github.com/sangkips/shopfront-pos/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func withOperator(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if op != "" {
			c.Set(OperatorKey, op)
		}
		c.Next()
	}
}

func serve(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotencyReplaysSuccess(t *testing.T) {
	calls := 0
	r := gin.New()
	r.POST("/sale", withOperator("alice"), Idempotency(IdempotencyConfig{Repo: repository.NewIdempotencyRepository()}), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"n": calls})
	})

	first := serve(r, http.MethodPost, "/sale", map[string]string{IdempotencyKeyHeader: "k1"})
	second := serve(r, http.MethodPost, "/sale", map[string]string{IdempotencyKeyHeader: "k1"})

	assert.Equal(t, 1, calls)
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "true", second.Header().Get(IdempotencyReplayedHeader))
	assert.Empty(t, first.Header().Get(IdempotencyReplayedHeader))

	serve(r, http.MethodPost, "/sale", map[string]string{IdempotencyKeyHeader: "k2"})
	serve(r, http.MethodPost, "/sale", nil)
	assert.Equal(t, 3, calls)
}

func TestIdempotencyKeysArePerOperator(t *testing.T) {
	repo := repository.NewIdempotencyRepository()
	calls := 0
	handler := func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{"n": calls})
	}
	r := gin.New()
	r.POST("/a", withOperator("alice"), Idempotency(IdempotencyConfig{Repo: repo}), handler)
	r.POST("/b", withOperator("bob"), Idempotency(IdempotencyConfig{Repo: repo}), handler)
	r.POST("/anon", withOperator(""), Idempotency(IdempotencyConfig{Repo: repo}), handler)

	serve(r, http.MethodPost, "/a", map[string]string{IdempotencyKeyHeader: "same"})
	serve(r, http.MethodPost, "/b", map[string]string{IdempotencyKeyHeader: "same"})
	serve(r, http.MethodPost, "/anon", map[string]string{IdempotencyKeyHeader: "same"})
	serve(r, http.MethodPost, "/anon", map[string]string{IdempotencyKeyHeader: "same"})

	assert.Equal(t, 4, calls)
}

func TestIdempotencySkipsFailures(t *testing.T) {
	calls := 0
	r := gin.New()
	r.POST("/sale", withOperator("alice"), Idempotency(IdempotencyConfig{Repo: repository.NewIdempotencyRepository()}), func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusConflict, gin.H{"n": calls})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"n": calls})
	})

	assert.Equal(t, http.StatusConflict, serve(r, http.MethodPost, "/sale", map[string]string{IdempotencyKeyHeader: "k"}).Code)
	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/sale", map[string]string{IdempotencyKeyHeader: "k"}).Code)
	assert.Equal(t, 2, calls)
}

func TestRateLimiterPerOperator(t *testing.T) {
	rl := NewOperatorRateLimiter(RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	r := gin.New()
	r.GET("/alice", withOperator("alice"), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bob", withOperator("bob"), rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/alice", nil).Code)
	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/alice", nil).Code)
	limited := serve(r, http.MethodGet, "/alice", nil)
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/bob", nil).Code)
	assert.Equal(t, 2, rl.Stats()["active_clients"])
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewOperatorRateLimiter(RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	now := time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("op:alice")
	now = now.Add(30 * time.Second)
	rl.getLimiter("op:bob")
	now = now.Add(45 * time.Second)
	rl.cleanup()

	assert.Equal(t, 1, rl.Stats()["active_clients"])
	_, ok := rl.limiters["op:bob"]
	assert.True(t, ok)
}

func TestAuthMiddleware(t *testing.T) {
	jwtManager := utils.NewJWTManager("secret", time.Hour, 2*time.Hour)
	r := gin.New()
	r.GET("/me", AuthMiddleware(jwtManager), func(c *gin.Context) {
		c.String(http.StatusOK, GetOperator(c)+"/"+c.GetString(SessionIDKey))
	})

	token, err := jwtManager.GenerateAccessToken("alice", "s1")
	require.NoError(t, err)
	refresh, err := jwtManager.GenerateRefreshToken("alice", "s1")
	require.NoError(t, err)

	ok := serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "alice/s1", ok.Body.String())

	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", map[string]string{"Authorization": token}).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer " + refresh}).Code)
}
