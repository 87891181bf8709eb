package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/agrovia/agrocontrol/internal/config"
)

func newGetContext(path string, userID uint64) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(path)
	if userID > 0 {
		c.Set("user_id", userID)
	}
	return c
}

func TestCacheKeySeparatesUsers(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	// The same route must never share a key across identities, so one
	// user's cached response cannot be replayed to another caller.
	keyUser7 := cacheKeyFrom(cfg, newGetContext("/api/v1/me", 7))
	keyUser8 := cacheKeyFrom(cfg, newGetContext("/api/v1/me", 8))
	keyAnon := cacheKeyFrom(cfg, newGetContext("/api/v1/me", 0))

	assert.NotEqual(t, keyUser7, keyUser8)
	assert.NotEqual(t, keyUser7, keyAnon)
	assert.NotEqual(t, keyUser8, keyAnon)
}

func TestCacheKeyStableForSameUser(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	first := cacheKeyFrom(cfg, newGetContext("/api/v1/fields", 7))
	second := cacheKeyFrom(cfg, newGetContext("/api/v1/fields", 7))
	other := cacheKeyFrom(cfg, newGetContext("/api/v1/crops", 7))

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}

func TestRateKeyIncludesUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}

	withUser := buildRateKey(cfg, newGetContext("/api/v1/fields", 7))
	anon := buildRateKey(cfg, newGetContext("/api/v1/fields", 0))

	assert.Contains(t, withUser, "user:7")
	assert.Contains(t, anon, "user:anon")
	assert.NotEqual(t, withUser, anon)
}
