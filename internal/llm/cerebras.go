package llm

import (
	openai "github.com/sashabaranov/go-openai"
)

const (
	cerebrasBaseURL = "https://api.cerebras.ai/v1"
	cerebrasModel   = "llama-3.3-70b"
)

// CerebrasClient uses the OpenAI-compatible Cerebras inference API.
type CerebrasClient struct {
	*OpenAIClient
}

func NewCerebrasClient(apiKey, model string) *CerebrasClient {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = cerebrasBaseURL
	return &CerebrasClient{OpenAIClient: newOpenAICompatibleClient(cfg, model, cerebrasModel)}
}
