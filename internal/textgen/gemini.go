package textgen

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/myrjola/avalanchemystery/internal/errors"
	"google.golang.org/api/option"
)

type geminiBackend struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func dialGemini(ctx context.Context, apiKey string, modelName string) (*geminiBackend, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, errors.Wrap(err, "create gemini client", slog.String("model", modelName))
	}
	return &geminiBackend{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

func (g *geminiBackend) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.Wrap(err, "gemini generate content")
	}
	return responseText(resp), nil
}

func (g *geminiBackend) Close() error {
	if err := g.client.Close(); err != nil {
		return errors.Wrap(err, "close gemini client")
	}
	return nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	return text.String()
}
