// Package artwork paints collectible images and publishes them to S3 compatible object storage.
package artwork

import (
	"context"
	"encoding/base64"

	"github.com/myrjola/avalanchemystery/internal/errors"
	"github.com/sashabaranov/go-openai"
)

var ErrNoImage = errors.NewSentinel("image generation returned no image")

// Painter turns a prompt into encoded image bytes.
type Painter interface {
	Paint(ctx context.Context, prompt string) ([]byte, error)
}

// OpenAIPainter paints with DALL-E 3.
type OpenAIPainter struct {
	client *openai.Client
}

func NewOpenAIPainter(apiKey string) *OpenAIPainter {
	return &OpenAIPainter{client: openai.NewClient(apiKey)}
}

func (p *OpenAIPainter) Paint(ctx context.Context, prompt string) ([]byte, error) {
	request := openai.ImageRequest{ //nolint:exhaustruct // defaults for quality and style
		Model:          openai.CreateImageModelDallE3,
		Prompt:         prompt,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
		N:              1,
	}
	response, err := p.client.CreateImage(ctx, request)
	if err != nil {
		return nil, errors.Wrap(err, "create image")
	}
	if len(response.Data) == 0 {
		return nil, ErrNoImage
	}
	img, err := base64.StdEncoding.DecodeString(response.Data[0].B64JSON)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	return img, nil
}
