package textgen

import (
	"context"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/sashabaranov/go-openai"
)

const MaxTokens = 4096

type openAIBackend struct {
	client *openai.Client
	model  string
}

func newOpenAI(apiKey string, model string) *openAIBackend {
	if model == "" {
		model = openai.GPT3Dot5Turbo1106
	}
	return &openAIBackend{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (o *openAIBackend) Complete(ctx context.Context, prompt string) (string, error) {
	completion, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     o.model,
			MaxTokens: MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt}, //nolint:exhaustruct // plain text message
			},
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", nil
	}
	return completion.Choices[0].Message.Content, nil
}
