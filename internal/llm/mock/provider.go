package mock

import (
	"context"

	"sitetrainer/pkg/models"
)

// MockProvider satisfies models.ChatProvider for testing and for running the
// server without a real LLM backend.
type MockProvider struct {
	Name_    string
	ChatFunc func(ctx context.Context, req models.ChatRequest) (string, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Chat(ctx context.Context, req models.ChatRequest) (string, error) {
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return defaultResponse, nil
}

const defaultResponse = `{
  "summary": "Mock summary: this company provides example products and services for testing.",
  "faqs": [
    {"question": "What does this company do?", "answer": "It provides example products and services.", "category": "General"},
    {"question": "How can I get in touch?", "answer": "Through the contact form on the website.", "category": "Contact"}
  ]
}`

// NewProvider returns a MockProvider with a valid default response.
func NewProvider() *MockProvider {
	return &MockProvider{Name_: "mock"}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		ChatFunc: func(_ context.Context, _ models.ChatRequest) (string, error) {
			return "", err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		ChatFunc: func(ctx context.Context, _ models.ChatRequest) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		},
	}
}

// Compile-time check that MockProvider implements ChatProvider.
var _ models.ChatProvider = (*MockProvider)(nil)
