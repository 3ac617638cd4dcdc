package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/interfaces/http/middleware"
)

var _ = Describe("CORS", func() {
	request := func(cfg middleware.CORSConfig, origin string) *httptest.ResponseRecorder {
		router := gin.New()
		router.Use(middleware.CORS(cfg))
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Origin", origin)
		router.ServeHTTP(w, req)
		return w
	}

	It("should echo the origin for a wildcard with credentials", func() {
		w := request(middleware.CORSConfig{AllowedOrigins: []string{"*"}}, "https://app.example.com")

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://app.example.com"))
		Expect(w.Header().Get("Access-Control-Allow-Credentials")).To(Equal("true"))
	})

	It("should reject origins outside the allow list", func() {
		w := request(middleware.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}, "https://evil.example.com")
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})
})

var _ = Describe("RequestID", func() {
	serve := func(id string) string {
		router := gin.New()
		router.Use(middleware.RequestID())
		router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		if id != "" {
			req.Header.Set(middleware.RequestIDHeader, id)
		}
		router.ServeHTTP(w, req)
		Expect(w.Header().Get(middleware.RequestIDHeader)).To(Equal(w.Body.String()))
		return w.Body.String()
	}

	It("should keep a caller supplied id", func() {
		Expect(serve("req-123")).To(Equal("req-123"))
	})

	It("should generate an id when missing or oversized", func() {
		Expect(serve("")).NotTo(BeEmpty())

		long := strings.Repeat("x", 200)
		Expect(serve(long)).NotTo(Equal(long))
	})
})
