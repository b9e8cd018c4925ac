package background

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/webp"

	"github.com/cardapio-project/cardapio/grpc/impl/genai"
)

// ImageClient is the image half of the Gemini wrapper.
type ImageClient interface {
	GenerateImage(ctx context.Context, model string, prompt string, reference []byte, referenceMIMEType string) ([]byte, string, error)
}

type gemini struct {
	client ImageClient
	model  string
}

// NewGemini generates backgrounds with model, sending the reference photo along with Prompt.
func NewGemini(client ImageClient, model string) Generator {
	if model == "" {
		model = string(genai.GenaiModelPro)
	}
	return &gemini{client: client, model: model}
}

func (g *gemini) Generate(ctx context.Context, reference image.Image) (image.Image, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, reference); err != nil {
		return nil, fmt.Errorf("failed to encode reference image: %w", err)
	}

	data, mimeType, err := g.client.GenerateImage(ctx, g.model, Prompt, buf.Bytes(), "image/png")
	if err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode generated %s: %w", mimeType, err)
	}
	return img, nil
}
