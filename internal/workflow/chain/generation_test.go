package chain_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	goopenai "github.com/meguminnnnnnnnn/go-openai"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"infoprod-ai-api/internal/workflow/chain"
	wfmodel "infoprod-ai-api/internal/workflow/model"
	workflowprompt "infoprod-ai-api/internal/workflow/prompt"
	apperrors "infoprod-ai-api/pkg/errors"
)

type mockChatModel struct {
	generateFn func(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
	streamFn   func() *schema.StreamReader[*schema.Message]
}

func (m *mockChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return m.generateFn(ctx, input, opts...)
}

func (m *mockChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	if m.streamFn != nil {
		return m.streamFn(), nil
	}
	return schema.StreamReaderFromArray([]*schema.Message{schema.AssistantMessage("ok", nil)}), nil
}

type mockFactory struct {
	getFn func(ctx context.Context, name string) (model.BaseChatModel, error)
}

func (f *mockFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	return f.getFn(ctx, name)
}

func (f *mockFactory) ModelName(string) string {
	return "gpt-4o-mini"
}

var _ = Describe("GenerationClient", func() {
	var (
		ctx       context.Context
		chatModel *mockChatModel
		factory   *mockFactory
		client    *chain.GenerationClient
		req       *workflowprompt.Request
	)

	BeforeEach(func() {
		ctx = context.Background()
		chatModel = &mockChatModel{}
		factory = &mockFactory{getFn: func(context.Context, string) (model.BaseChatModel, error) {
			return chatModel, nil
		}}
		client = chain.NewGenerationClient(factory, " openai ")

		var err error
		req, err = workflowprompt.BuildTitleMessages(wfmodel.TitleInput{Niche: "Finanças", SubNiche: "Investimentos"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("should expose provider and model names", func() {
		Expect(client.Provider()).To(Equal("openai"))
		Expect(client.ModelName()).To(Equal("gpt-4o-mini"))
	})

	It("should pass the fixed parameters as model options", func() {
		chatModel.generateFn = func(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
			Expect(input).To(HaveLen(2))
			o := model.GetCommonOptions(nil, opts...)
			Expect(o.Temperature).NotTo(BeNil())
			Expect(*o.Temperature).To(BeNumerically("~", 0.8, 0.001))
			Expect(o.MaxTokens).NotTo(BeNil())
			Expect(*o.MaxTokens).To(Equal(250))
			return schema.AssistantMessage("1. Título", nil), nil
		}

		out, err := client.Generate(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("1. Título"))
	})

	It("should classify provider failures", func() {
		chatModel.generateFn = func(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
			return nil, &goopenai.APIError{HTTPStatusCode: http.StatusTooManyRequests}
		}

		_, err := client.Generate(ctx, req)
		Expect(apperrors.ProviderKind(err)).To(Equal(apperrors.ProviderErrorRateLimit))
	})

	It("should treat a nil message as a provider error", func() {
		chatModel.generateFn = func(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
			return nil, nil
		}

		_, err := client.Generate(ctx, req)
		Expect(errors.Is(err, apperrors.ErrProvider)).To(BeTrue())
	})

	It("should pass configuration errors through untouched", func() {
		factory.getFn = func(context.Context, string) (model.BaseChatModel, error) {
			return nil, apperrors.NewConfigurationError("missing api key")
		}

		_, err := client.Generate(ctx, req)
		Expect(errors.Is(err, apperrors.ErrConfiguration)).To(BeTrue())
	})

	It("should reject empty requests", func() {
		_, err := client.Generate(ctx, &workflowprompt.Request{})
		Expect(err).To(HaveOccurred())
	})

	It("should wrap stream read errors once", func() {
		Expect(chain.WrapStreamError(nil)).To(BeNil())

		wrapped := chain.WrapStreamError(context.DeadlineExceeded)
		Expect(apperrors.ProviderKind(wrapped)).To(Equal(apperrors.ProviderErrorConnection))
		Expect(chain.WrapStreamError(wrapped)).To(BeIdenticalTo(wrapped))
	})

	It("should classify errors raised while reading the stream", func() {
		chatModel.streamFn = func() *schema.StreamReader[*schema.Message] {
			sr, sw := schema.Pipe[*schema.Message](2)
			go func() {
				defer sw.Close()
				sw.Send(schema.AssistantMessage("Olá", nil), nil)
				sw.Send(nil, &goopenai.APIError{HTTPStatusCode: http.StatusTooManyRequests, Message: "slow down"})
			}()
			return sr
		}

		sr, err := client.Stream(ctx, req)
		Expect(err).NotTo(HaveOccurred())
		defer sr.Close()

		msg, err := sr.Recv()
		Expect(err).NotTo(HaveOccurred())
		Expect(msg.Content).To(Equal("Olá"))

		_, err = sr.Recv()
		Expect(errors.Is(err, apperrors.ErrProvider)).To(BeTrue())
		Expect(apperrors.ProviderKind(err)).To(Equal(apperrors.ProviderErrorRateLimit))
	})
})
