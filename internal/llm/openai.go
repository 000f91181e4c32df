package llm

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/Harshitk-cp/sensei/internal/domain"
	openai "github.com/sashabaranov/go-openai"
)

const chatModel = "gpt-4o-mini"

// OpenAIClient talks to any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return newOpenAICompatibleClient(openai.DefaultConfig(apiKey), model, chatModel)
}

func newOpenAICompatibleClient(cfg openai.ClientConfig, model, defaultModel string) *OpenAIClient {
	if model == "" {
		model = defaultModel
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *OpenAIClient) Chat(ctx context.Context, prompt string, opts domain.ChatOptions) (*domain.ChatResponse, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: opts.MaxTokens,
	}
	if opts.Temperature != nil {
		req.Temperature = *opts.Temperature
		// go-openai omits a zero temperature, which leaves the server default.
		if req.Temperature == 0 {
			req.Temperature = math.SmallestNonzeroFloat32
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat API returned no choices")
	}

	return &domain.ChatResponse{
		Text: strings.TrimSpace(resp.Choices[0].Message.Content),
		Usage: domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}
