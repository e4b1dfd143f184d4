// Package llm talks to an OpenAI-compatible chat completion endpoint and
// turns documentation text into podcast material. It produces question and
// answer content for an episode and, when conversation mode is on, a two
// host dialogue script that the script package can parse back into speaker
// segments.
package llm

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
)

// Client is a thin wrapper over the chat completion API. One instance is
// safe for concurrent use.
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	timeout     time.Duration
	logger      *logging.Logger
}

// NewClient builds a completion client from the llm section of the
// configuration. The endpoint URL and API key are required.
func NewClient(cfg *config.Config, logger *logging.Logger) (*Client, error) {
	llmCfg := cfg.LLM
	if llmCfg.BaseURL == "" {
		return nil, errors.New(errors.KindConfig, "llm.new", "llm url is required")
	}
	if llmCfg.APIKey == "" {
		return nil, errors.New(errors.KindConfig, "llm.new", "llm api key is required")
	}

	model := llmCfg.ModelName
	if model == "" {
		model = "gpt-4o-mini"
	}
	temperature := llmCfg.Temperature
	if temperature <= 0 || temperature > 2 {
		temperature = 0.7
	}
	maxTokens := llmCfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}
	timeout := time.Duration(llmCfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	clientConfig := openai.DefaultConfig(llmCfg.APIKey)
	clientConfig.BaseURL = strings.TrimRight(llmCfg.BaseURL, "/")

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: float32(temperature),
		maxTokens:   maxTokens,
		timeout:     timeout,
		logger:      logger,
	}, nil
}

// Complete sends a single chat completion request and returns the trimmed
// assistant message. An empty systemPrompt sends the user prompt alone.
func (c *Client) Complete(ctx context.Context, prompt, systemPrompt string) (string, error) {
	op := "llm.complete"

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: systemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.DebugTag("LLM", "requesting completion, model %s, prompt %d chars", c.model, len(prompt))

	response, err := c.client.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return "", errors.New(errors.KindTimeout, op, "completion request timed out")
		}
		return "", errors.Wrap(errors.KindLLM, op, "completion request failed", err)
	}

	if len(response.Choices) == 0 {
		return "", errors.New(errors.KindLLM, op, "no completion choices returned")
	}

	content := strings.TrimSpace(response.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New(errors.KindLLM, op, "completion returned empty content")
	}

	c.logger.DebugTag("LLM", "completion received, %d chars", len(content))
	return content, nil
}
