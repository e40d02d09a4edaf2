package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/rotinafit/entitlement-api/internal/application/middleware"
)

func newLimitedRouter(t *testing.T, failOpen bool, cfg middleware.RateLimitConfig) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	limiter := middleware.NewRateLimiter(client, failOpen)

	router := gin.New()
	router.GET("/limited",
		func(c *gin.Context) { c.Set(middleware.ContextUserID, "user-1"); c.Next() },
		limiter.Middleware(middleware.ByUserID, cfg),
		func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
	)
	return router, mr
}

func hit(router *gin.Engine) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/limited", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_ProductionConfigsAllowFirstRequest(t *testing.T) {
	// The verify and entitlement routes use these configs with Burst > Rate;
	// a fresh user's first request must pass.
	configs := map[string]middleware.RateLimitConfig{
		"verify":  middleware.VerifyConfig,
		"default": middleware.DefaultConfig,
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			router, _ := newLimitedRouter(t, false, cfg)
			w := hit(router)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	router, _ := newLimitedRouter(t, false, middleware.RateLimitConfig{Rate: 1, Burst: 3})

	for i := 0; i < 3; i++ {
		w := hit(router)
		assert.Equal(t, http.StatusOK, w.Code, "request %d should pass", i+1)
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	router, _ := newLimitedRouter(t, false, middleware.RateLimitConfig{Rate: 1, Burst: 2})

	hit(router)
	hit(router)
	w := hit(router)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_FailOpenOnRedisLoss(t *testing.T) {
	router, mr := newLimitedRouter(t, true, middleware.RateLimitConfig{Rate: 1, Burst: 1})
	mr.Close()

	w := hit(router)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_FailClosedOnRedisLoss(t *testing.T) {
	router, mr := newLimitedRouter(t, false, middleware.RateLimitConfig{Rate: 1, Burst: 1})
	mr.Close()

	w := hit(router)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
