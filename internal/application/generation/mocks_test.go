package generation_test

import (
	"context"

	"github.com/cloudwego/eino/schema"

	workflowprompt "infoprod-ai-api/internal/workflow/prompt"
)

type mockTextGenerator struct {
	generateFn func(ctx context.Context, req *workflowprompt.Request) (string, error)
	streamFn   func(ctx context.Context, req *workflowprompt.Request) (*schema.StreamReader[*schema.Message], error)
	model      string
}

func (m *mockTextGenerator) Generate(ctx context.Context, req *workflowprompt.Request) (string, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return "", nil
}

func (m *mockTextGenerator) Stream(ctx context.Context, req *workflowprompt.Request) (*schema.StreamReader[*schema.Message], error) {
	if m.streamFn != nil {
		return m.streamFn(ctx, req)
	}
	return schema.StreamReaderFromArray([]*schema.Message{}), nil
}

func (m *mockTextGenerator) ModelName() string {
	return m.model
}
