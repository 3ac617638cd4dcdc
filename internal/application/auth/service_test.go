package auth_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/application/auth"
	apperrors "infoprod-ai-api/pkg/errors"
	"infoprod-ai-api/pkg/utils"
)

const testSecret = "test-secret"

var _ = Describe("Service", func() {
	var (
		ctx      context.Context
		profiles *memoryProfileRepo
		denylist *mockDenylist
		svc      *auth.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		profiles = newMemoryProfileRepo()
		denylist = newMockDenylist()
		svc = auth.NewService(profiles, denylist, auth.Config{
			Secret:     testSecret,
			Issuer:     "infoprod-ai",
			AccessTTL:  time.Hour,
			RefreshTTL: 24 * time.Hour,
		})
	})

	signUp := func() {
		_, err := svc.SignUp(ctx, "Ana", "ana@example.com", "segredo123")
		Expect(err).NotTo(HaveOccurred())
	}

	Describe("SignUp", func() {
		It("should create a profile with a hashed password", func() {
			p, err := svc.SignUp(ctx, "Ana", " Ana@Example.com ", "segredo123")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.Email).To(Equal("ana@example.com"))
			Expect(p.PasswordHash).NotTo(BeEmpty())
		})

		It("should reject a duplicate email", func() {
			signUp()
			_, err := svc.SignUp(ctx, "Outra Ana", "ANA@example.com", "segredo123")
			Expect(errors.Is(err, apperrors.ErrConflict)).To(BeTrue())
		})

		DescribeTable("invalid input",
			func(name, email, password string) {
				_, err := svc.SignUp(ctx, name, email, password)
				Expect(errors.Is(err, apperrors.ErrValidationFailed)).To(BeTrue())
			},
			Entry("blank name", " ", "ana@example.com", "segredo123"),
			Entry("malformed email", "Ana", "ana-at-example", "segredo123"),
			Entry("short password", "Ana", "ana@example.com", "12345"),
		)
	})

	Describe("SignIn", func() {
		BeforeEach(signUp)

		It("should issue an access and refresh token", func() {
			res, err := svc.SignIn(ctx, "ana@example.com", "segredo123")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Tokens.AccessToken).NotTo(BeEmpty())
			Expect(res.Tokens.RefreshToken).NotTo(BeEmpty())

			session, err := svc.Authenticate(ctx, res.Tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.UserID).To(Equal(res.Profile.ID))
			Expect(session.Email).To(Equal("ana@example.com"))
		})

		It("should not reveal which credential was wrong", func() {
			_, errPassword := svc.SignIn(ctx, "ana@example.com", "errada")
			_, errEmail := svc.SignIn(ctx, "bia@example.com", "segredo123")

			Expect(errors.Is(errPassword, apperrors.ErrUnauthorized)).To(BeTrue())
			Expect(errPassword.Error()).To(Equal(errEmail.Error()))
		})
	})

	Describe("Authenticate", func() {
		It("should reject missing, malformed and expired tokens", func() {
			_, err := svc.Authenticate(ctx, "")
			Expect(errors.Is(err, apperrors.ErrTokenMissing)).To(BeTrue())

			_, err = svc.Authenticate(ctx, "not-a-jwt")
			Expect(errors.Is(err, apperrors.ErrTokenInvalid)).To(BeTrue())

			expired, err := utils.NewJWTManager(testSecret, "infoprod-ai").GenerateToken("u", "a@b.c", utils.TokenTypeAccess, -time.Minute)
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Authenticate(ctx, expired)
			Expect(errors.Is(err, apperrors.ErrTokenExpired)).To(BeTrue())
		})

		It("should refuse refresh tokens as access tokens", func() {
			signUp()
			res, err := svc.SignIn(ctx, "ana@example.com", "segredo123")
			Expect(err).NotTo(HaveOccurred())

			_, err = svc.Authenticate(ctx, res.Tokens.RefreshToken)
			Expect(errors.Is(err, apperrors.ErrTokenInvalid)).To(BeTrue())
		})

		It("should accept tokens when the denylist is unavailable", func() {
			signUp()
			res, err := svc.SignIn(ctx, "ana@example.com", "segredo123")
			Expect(err).NotTo(HaveOccurred())

			denylist.isRevokedFn = func(context.Context, string) (bool, error) {
				return false, errors.New("redis down")
			}
			_, err = svc.Authenticate(ctx, res.Tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("SignOut and Refresh", func() {
		var tokens *utils.TokenPair

		BeforeEach(func() {
			signUp()
			res, err := svc.SignIn(ctx, "ana@example.com", "segredo123")
			Expect(err).NotTo(HaveOccurred())
			tokens = res.Tokens
		})

		It("should revoke the access token on sign out", func() {
			Expect(svc.SignOut(ctx, tokens.AccessToken)).To(Succeed())

			_, err := svc.Authenticate(ctx, tokens.AccessToken)
			Expect(errors.Is(err, apperrors.ErrTokenInvalid)).To(BeTrue())
		})

		It("should ignore invalid tokens on sign out", func() {
			Expect(svc.SignOut(ctx, "garbage")).To(Succeed())
			Expect(denylist.revoked).To(BeEmpty())
		})

		It("should rotate refresh tokens", func() {
			next, err := svc.Refresh(ctx, tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(next.RefreshToken).NotTo(Equal(tokens.RefreshToken))

			_, err = svc.Refresh(ctx, tokens.RefreshToken)
			Expect(errors.Is(err, apperrors.ErrTokenInvalid)).To(BeTrue())
		})
	})

	Describe("session context", func() {
		It("should round-trip the session", func() {
			Expect(auth.SessionFromContext(ctx)).To(BeNil())

			s := &auth.Session{UserID: "u"}
			Expect(auth.SessionFromContext(auth.WithSession(ctx, s))).To(BeIdenticalTo(s))
		})
	})
})
