package llm

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient speaks any OpenAI-compatible chat-completions endpoint and
// asks for a JSON object response. It serves as the fallback tier behind
// the Gemini primary.
type OpenAIClient struct {
	cli   *openai.Client
	model string
}

// NewOpenAIClient creates the client. baseURL may be empty for the
// default api.openai.com endpoint, or point at any compatible provider.
func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{cli: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAIClient) Name() string { return "OpenAI:" + o.model }
func (o *OpenAIClient) Close() error { return nil }

func (o *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, input any) (json.RawMessage, error) {
	in, _ := json.MarshalIndent(input, "", "  ")
	log.Printf("LLM request (%s): %d bytes", o.Name(), len(prompt)+len(in))

	resp, err := o.cli.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt},
			{Role: openai.ChatMessageRoleUser, Content: "[INPUT JSON]\n" + string(in)},
		},
		Temperature: 0,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrInvalidJSON
	}
	return checkJSON(json.RawMessage(resp.Choices[0].Message.Content))
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(reqErr.HTTPStatusCode, err)
	}
	return err
}
