package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/interfaces/http/middleware"
)

type mockRateLimiter struct {
	allowFn func(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	keys    []string
}

func (m *mockRateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.keys = append(m.keys, key)
	return m.allowFn(ctx, key, limit, window)
}

var _ = Describe("RateLimit", func() {
	var (
		limiter *mockRateLimiter
		router  *gin.Engine
	)

	buildKey := func(subject, scope string) string {
		return "ratelimit:" + scope + ":" + subject
	}

	setup := func(cfg middleware.RateLimitConfig) {
		router = gin.New()
		router.POST("/generate", middleware.RateLimit(cfg, limiter, buildKey), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	post := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/generate", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		router.ServeHTTP(w, req)
		return w
	}

	BeforeEach(func() {
		limiter = &mockRateLimiter{allowFn: func(context.Context, string, int, time.Duration) (bool, error) {
			return true, nil
		}}
	})

	It("should key anonymous callers by client ip", func() {
		setup(middleware.RateLimitConfig{Enabled: true, Limit: 5, Window: time.Minute, Scope: "generate"})

		Expect(post().Code).To(Equal(http.StatusOK))
		Expect(limiter.keys).To(Equal([]string{"ratelimit:generate:ip:10.0.0.7"}))
	})

	It("should answer 429 when the window is exhausted", func() {
		limiter.allowFn = func(context.Context, string, int, time.Duration) (bool, error) {
			return false, nil
		}
		setup(middleware.RateLimitConfig{Enabled: true, Scope: "generate"})

		w := post()
		Expect(w.Code).To(Equal(http.StatusTooManyRequests))
		Expect(w.Body.String()).To(ContainSubstring(`"error_code":"RATE_LIMITED"`))
	})

	It("should let requests through when the limiter fails", func() {
		limiter.allowFn = func(context.Context, string, int, time.Duration) (bool, error) {
			return false, errors.New("redis down")
		}
		setup(middleware.RateLimitConfig{Enabled: true, Scope: "generate"})

		Expect(post().Code).To(Equal(http.StatusOK))
	})

	It("should skip the limiter when disabled", func() {
		setup(middleware.RateLimitConfig{Enabled: false})

		Expect(post().Code).To(Equal(http.StatusOK))
		Expect(limiter.keys).To(BeEmpty())
	})
})
