package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/application/auth"
	"infoprod-ai-api/internal/interfaces/http/handler"
	"infoprod-ai-api/internal/interfaces/http/middleware"
)

var _ = Describe("AuthHandler", func() {
	var router *gin.Engine

	BeforeEach(func() {
		svc := auth.NewService(newMemoryProfileRepo(), newMemoryDenylist(), auth.Config{
			Secret:     "test-secret",
			Issuer:     "infoprod-ai-api",
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		})
		h := handler.NewAuthHandler(svc, false)

		router = gin.New()
		v1 := router.Group("/api/v1", middleware.OptionalAuth(svc))
		g := v1.Group("/auth")
		g.POST("/signup", h.SignUp)
		g.POST("/login", h.Login)
		g.POST("/logout", h.Logout)
		g.POST("/refresh", h.Refresh)
		g.GET("/session", h.Session)
	})

	send := func(method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
		var raw []byte
		if body != nil {
			var err error
			raw, err = json.Marshal(body)
			Expect(err).NotTo(HaveOccurred())
		}
		req := httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	cookieNamed := func(w *httptest.ResponseRecorder, name string) *http.Cookie {
		for _, c := range w.Result().Cookies() {
			if c.Name == name {
				return c
			}
		}
		return nil
	}

	signUpAndLogin := func() *httptest.ResponseRecorder {
		w := send(http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"name": "Ana Souza", "email": "Ana@Example.com", "password": "segredo123",
		})
		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(dataOf(w)["success"]).To(BeTrue())

		w = send(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email": "ana@example.com", "password": "segredo123",
		})
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		return w
	}

	It("should reject a duplicate email", func() {
		signUpAndLogin()

		w := send(http.MethodPost, "/api/v1/auth/signup", map[string]string{
			"name": "Outra", "email": "ana@example.com", "password": "segredo123",
		})
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(errorCodeOf(w)).To(Equal("CONFLICT"))
	})

	It("should set http-only token cookies on login", func() {
		w := signUpAndLogin()

		access := cookieNamed(w, middleware.AccessTokenCookie)
		Expect(access).NotTo(BeNil())
		Expect(access.HttpOnly).To(BeTrue())
		Expect(access.Path).To(Equal("/"))
		Expect(access.MaxAge).To(Equal(3600))
		Expect(access.Value).To(Equal(dataOf(w)["access_token"]))

		refresh := cookieNamed(w, middleware.RefreshTokenCookie)
		Expect(refresh).NotTo(BeNil())
		Expect(refresh.Path).To(Equal("/api/v1/auth"))

		user := dataOf(w)["user"].(map[string]any)
		Expect(user["email"]).To(Equal("ana@example.com"))
	})

	It("should reject a wrong password", func() {
		signUpAndLogin()

		w := send(http.MethodPost, "/api/v1/auth/login", map[string]string{
			"email": "ana@example.com", "password": "errada123",
		})
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
		Expect(cookieNamed(w, middleware.AccessTokenCookie)).To(BeNil())
	})

	It("should report the session from the access cookie", func() {
		access := cookieNamed(signUpAndLogin(), middleware.AccessTokenCookie)

		w := send(http.MethodGet, "/api/v1/auth/session", nil, access)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(dataOf(w)["email"]).To(Equal("ana@example.com"))

		w = send(http.MethodGet, "/api/v1/auth/session", nil)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(envelopeOf(w)["data"]).To(BeNil())
	})

	It("should clear cookies and revoke the token on logout", func() {
		login := signUpAndLogin()
		access := cookieNamed(login, middleware.AccessTokenCookie)
		refresh := cookieNamed(login, middleware.RefreshTokenCookie)

		w := send(http.MethodPost, "/api/v1/auth/logout", nil, access, refresh)
		Expect(w.Code).To(Equal(http.StatusOK))

		cleared := cookieNamed(w, middleware.AccessTokenCookie)
		Expect(cleared).NotTo(BeNil())
		Expect(cleared.Value).To(BeEmpty())
		Expect(cleared.MaxAge).To(BeNumerically("<", 0))
		Expect(cookieNamed(w, middleware.RefreshTokenCookie).MaxAge).To(BeNumerically("<", 0))

		w = send(http.MethodGet, "/api/v1/auth/session", nil, access)
		Expect(envelopeOf(w)["data"]).To(BeNil())

		w = send(http.MethodPost, "/api/v1/auth/refresh", nil, refresh)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("should rotate tokens with the refresh cookie", func() {
		refresh := cookieNamed(signUpAndLogin(), middleware.RefreshTokenCookie)

		w := send(http.MethodPost, "/api/v1/auth/refresh", nil, refresh)
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		Expect(dataOf(w)["access_token"]).NotTo(BeEmpty())
		Expect(cookieNamed(w, middleware.AccessTokenCookie)).NotTo(BeNil())

		w = send(http.MethodPost, "/api/v1/auth/refresh", nil, refresh)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
