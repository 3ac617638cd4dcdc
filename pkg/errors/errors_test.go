package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "infoprod-ai-api/pkg/errors"
)

var _ = Describe("AppError", func() {
	It("should match by code through wrapping", func() {
		err := fmt.Errorf("generate: %w", apperrors.NewParseError(stderrors.New("bad json")))

		Expect(stderrors.Is(err, apperrors.ErrParse)).To(BeTrue())
		Expect(stderrors.Is(err, apperrors.ErrEmptyResponse)).To(BeFalse())
	})

	It("should not mutate predefined errors", func() {
		detailed := apperrors.ErrNotFound.WithDetail("product")

		Expect(detailed.Detail).To(Equal("product"))
		Expect(apperrors.ErrNotFound.Detail).To(BeEmpty())
	})

	It("should wrap unknown errors as internal", func() {
		appErr := apperrors.AsAppError(stderrors.New("boom"))

		Expect(appErr.Code).To(Equal(apperrors.CodeUnknown))
		Expect(appErr.HTTPStatus).To(Equal(http.StatusInternalServerError))
		Expect(appErr.Code.Name()).To(Equal("INTERNAL_ERROR"))
	})

	DescribeTable("code names and statuses",
		func(err *apperrors.AppError, name string, status int) {
			Expect(err.Code.Name()).To(Equal(name))
			Expect(err.HTTPStatus).To(Equal(status))
		},
		Entry("unauthorized", apperrors.ErrUnauthorized, "UNAUTHORIZED", http.StatusUnauthorized),
		Entry("token expired", apperrors.ErrTokenExpired, "UNAUTHORIZED", http.StatusUnauthorized),
		Entry("validation", apperrors.NewValidationError("x"), "VALIDATION_ERROR", http.StatusBadRequest),
		Entry("product missing", apperrors.ErrProductNotFound, "NOT_FOUND", http.StatusNotFound),
		Entry("rate limited", apperrors.ErrTooManyRequests, "RATE_LIMITED", http.StatusTooManyRequests),
		Entry("parse", apperrors.NewParseError(nil), "PARSE_ERROR", http.StatusBadGateway),
		Entry("empty response", apperrors.NewEmptyResponseError(), "EMPTY_RESPONSE", http.StatusBadGateway),
		Entry("configuration", apperrors.NewConfigurationError("api key"), "CONFIGURATION_ERROR", http.StatusInternalServerError),
		Entry("persistence", apperrors.NewPersistenceError("insert", nil), "PERSISTENCE_ERROR", http.StatusInternalServerError),
	)
})

var _ = Describe("ProviderKind", func() {
	It("should extract the classification from a provider error", func() {
		err := fmt.Errorf("call: %w", apperrors.NewProviderError(apperrors.ProviderErrorRateLimit, nil))
		Expect(apperrors.ProviderKind(err)).To(Equal(apperrors.ProviderErrorRateLimit))
	})

	It("should default an empty kind to unknown", func() {
		err := apperrors.NewProviderError("", nil)
		Expect(apperrors.ProviderKind(err)).To(Equal(apperrors.ProviderErrorUnknown))
	})

	It("should return empty for other errors", func() {
		Expect(apperrors.ProviderKind(apperrors.ErrParse)).To(BeEmpty())
		Expect(apperrors.ProviderKind(stderrors.New("x"))).To(BeEmpty())
	})
})
