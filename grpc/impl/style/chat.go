package style

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	"github.com/disintegration/imaging"
	"github.com/sashabaranov/go-openai"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	pkgOpenai "github.com/cardapio-project/cardapio/pkg/openai"
)

// ChatClient is the chat half of an OpenAI-compatible client. Both the
// OpenAI adapter and the Gemini wrapper satisfy it.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Larger photos do not improve the answer and slow the request down.
const maxPromptImageSide = 1024

type chat struct {
	client ChatClient
	model  string
}

// NewChat returns an Inferrer that sends the image and Prompt to model.
func NewChat(client ChatClient, model string) Inferrer {
	return &chat{client: client, model: model}
}

func (c *chat) Infer(ctx context.Context, img image.Image) (menu.StyleMap, error) {
	uri, err := dataURI(img)
	if err != nil {
		return nil, err
	}

	response, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: Prompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    uri,
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	if err != nil {
		return nil, fmt.Errorf("style completion failed: %w", err)
	}

	content, err := pkgOpenai.GetCompletionContent(response)
	if err != nil {
		return nil, err
	}
	return ParseStyleMap(content)
}

func dataURI(img image.Image) (string, error) {
	bounds := img.Bounds()
	if bounds.Dx() > maxPromptImageSide || bounds.Dy() > maxPromptImageSide {
		img = imaging.Fit(img, maxPromptImageSide, maxPromptImageSide, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image for the style prompt: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
