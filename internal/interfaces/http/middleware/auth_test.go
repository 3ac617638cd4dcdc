package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/application/auth"
	"infoprod-ai-api/internal/interfaces/http/middleware"
	apperrors "infoprod-ai-api/pkg/errors"
)

type mockAuthenticator struct {
	authenticateFn func(ctx context.Context, token string) (*auth.Session, error)
}

func (m *mockAuthenticator) Authenticate(ctx context.Context, token string) (*auth.Session, error) {
	return m.authenticateFn(ctx, token)
}

var _ = Describe("Auth middleware", func() {
	var (
		router *gin.Engine
		authn  *mockAuthenticator
	)

	BeforeEach(func() {
		authn = &mockAuthenticator{authenticateFn: func(_ context.Context, token string) (*auth.Session, error) {
			if token == "good-token" {
				return &auth.Session{UserID: "user-1", Email: "ana@example.com"}, nil
			}
			return nil, apperrors.ErrTokenInvalid
		}}

		router = gin.New()
		api := router.Group("/api/v1", middleware.OptionalAuth(authn))
		api.GET("/public", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": middleware.GetUserIDFromGin(c)})
		})
		private := api.Group("", middleware.RequireAuth())
		private.GET("/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"user_id": middleware.GetUserIDFromGin(c)})
		})
	})

	serve := func(req *http.Request) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should reject private routes without a session", func() {
		w := serve(httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		Expect(w.Code).To(Equal(http.StatusUnauthorized))

		var body map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		Expect(body["message"]).To(Equal("Não autorizado"))
		Expect(body["error"]).To(HaveKeyWithValue("error_code", "UNAUTHORIZED"))
	})

	It("should reject an invalid token on private routes", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		Expect(serve(req).Code).To(Equal(http.StatusUnauthorized))
	})

	It("should accept a bearer token", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Authorization", "Bearer good-token")

		w := serve(req)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"user_id":"user-1"`))
	})

	It("should accept the access token cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "good-token"})
		Expect(serve(req).Code).To(Equal(http.StatusOK))
	})

	It("should let anonymous requests through public routes", func() {
		w := serve(httptest.NewRequest(http.MethodGet, "/api/v1/public", nil))
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"user_id":""`))
	})

	It("should prefer the authorization header over the cookie", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
		req.Header.Set("Authorization", "Basic abc")
		req.AddCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "good-token"})
		Expect(serve(req).Code).To(Equal(http.StatusUnauthorized))
	})
})
