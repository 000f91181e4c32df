package llm

import (
	"context"
	"sync"

	"github.com/Harshitk-cp/sensei/internal/domain"
)

// ChatCall records one invocation of MockClient.Chat.
type ChatCall struct {
	Prompt  string
	Options domain.ChatOptions
}

// MockClient is a configurable LLM client for testing and local runs.
// Set ChatResponse/ChatError to control what Chat returns, or ChatFunc
// to compute the response from the prompt.
type MockClient struct {
	mu sync.Mutex

	ChatResponse string
	ChatUsage    domain.Usage
	ChatError    error
	ChatFunc     func(prompt string) (string, error)

	// Call tracking for assertions
	ChatCalls []ChatCall
}

func NewMockClient() *MockClient {
	return &MockClient{
		ChatResponse: "Mock answer",
		ChatUsage:    domain.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func (c *MockClient) Chat(ctx context.Context, prompt string, opts domain.ChatOptions) (*domain.ChatResponse, error) {
	c.mu.Lock()
	c.ChatCalls = append(c.ChatCalls, ChatCall{Prompt: prompt, Options: opts})
	fn, text, usage, err := c.ChatFunc, c.ChatResponse, c.ChatUsage, c.ChatError
	c.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if fn != nil {
		out, err := fn(prompt)
		if err != nil {
			return nil, err
		}
		text = out
	}
	return &domain.ChatResponse{Text: text, Usage: usage}, nil
}

// Calls returns a copy of the recorded calls.
func (c *MockClient) Calls() []ChatCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ChatCall(nil), c.ChatCalls...)
}

// Reset clears all recorded calls and resets responses to defaults.
func (c *MockClient) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ChatResponse = "Mock answer"
	c.ChatUsage = domain.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}
	c.ChatError = nil
	c.ChatFunc = nil
	c.ChatCalls = nil
}
