package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/inklet/inklet/config"
)

func TestRateLimitBlocksAfterBurst(t *testing.T) {
	config.SetForTesting(config.AppConfig{
		SessionSecret:      "test-secret",
		RateLimitPerMinute: 2,
	})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimit())
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// burst of 2 for this IP, then the bucket is empty
	assert.Equal(t, http.StatusOK, send("203.0.113.7:1000"))
	assert.Equal(t, http.StatusOK, send("203.0.113.7:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7:1000"))

	// a different IP has its own bucket
	assert.Equal(t, http.StatusOK, send("203.0.113.8:1000"))
}
