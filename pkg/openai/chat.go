package openai

import (
	"context"
	"os"

	"github.com/sashabaranov/go-openai"
)

type IChatGPT interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type chatGPTService struct {
	client *openai.Client
	model  string
}

func NewChatGPT() IChatGPT {
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("OPENAI_CHAT_MODEL")

	if model == "" {
		model = openai.GPT4o
	}

	return &chatGPTService{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// CompleteJSON runs one chat completion in JSON mode and returns the
// raw JSON text. Generation here is one-shot: dialogue management
// lives in the voice phase machine, never in the model.
func (c *chatGPTService) CompleteJSON(
	ctx context.Context,
	systemPrompt string,
	userPrompt string,
) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
