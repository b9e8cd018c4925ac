package background

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/sashabaranov/go-openai"

	pkgOpenai "github.com/cardapio-project/cardapio/pkg/openai"
)

const describePrompt = `Describe the visual style of this restaurant menu in two or three sentences:
colors, textures, decorative elements and mood. Do not mention any of its text.`

type dalle struct {
	client pkgOpenai.Client
}

// NewOpenAI generates backgrounds with DALL-E 3. DALL-E takes no reference
// image, so GPT-4o first describes the reference style and the description
// is appended to Prompt.
func NewOpenAI(client pkgOpenai.Client) Generator {
	return &dalle{client: client}
}

func (d *dalle) Generate(ctx context.Context, reference image.Image) (image.Image, error) {
	description, err := d.describe(ctx, reference)
	if err != nil {
		return nil, err
	}

	response, err := d.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         Prompt + "\nReference style: " + description,
		Model:          openai.CreateImageModelDallE3,
		N:              1,
		Size:           openai.CreateImageSize1024x1792,
		Quality:        openai.CreateImageQualityStandard,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, err
	}
	if len(response.Data) == 0 || response.Data[0].B64JSON == "" {
		return nil, errors.New("image generation returned no image")
	}

	data, err := base64.StdEncoding.DecodeString(response.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated image: %w", err)
	}
	return img, nil
}

func (d *dalle) describe(ctx context.Context, reference image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, imaging.Fit(reference, 1024, 1024, imaging.Lanczos), &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode reference image: %w", err)
	}

	response, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4o,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: describePrompt},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
							Detail: openai.ImageURLDetailLow,
						},
					},
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	description, err := pkgOpenai.GetCompletionContent(response)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(description), nil
}
