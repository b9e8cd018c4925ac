// Package background asks a generative model for a text-free menu background.
package background

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/http"
	"regexp"

	"github.com/disintegration/imaging"
	"github.com/googleapis/gax-go/v2/apierror"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cardapio-project/cardapio/pkg/common"
	"github.com/cardapio-project/cardapio/pkg/result"
)

// Rendered menus are always this size, whatever the generator returns.
const (
	Width  = 800
	Height = 1200
)

// Prompt asks for a portrait 2:3 background styled after the reference photo.
const Prompt = `Look at the reference menu photograph I sent.
Create a single background image for a restaurant menu in 2:3 portrait proportion.
Its style, colors and textures must be inspired by the reference image.
The background must look beautiful and professional and MUST NOT CONTAIN ANY TEXT, WORDS OR LOGOS.`

// Generator produces a background image inspired by reference.
type Generator interface {
	Generate(ctx context.Context, reference image.Image) (image.Image, error)
}

// Generate calls generator and resizes its answer to Width x Height. A
// failed generation is Fatal: quota and rate-limit failures carry
// common.KindQuotaExceeded, anything else stays unclassified.
func Generate(ctx context.Context, generator Generator, reference image.Image) result.Result[image.Image] {
	img, err := generator.Generate(ctx, reference)
	if err != nil {
		if isQuotaExceeded(err) {
			return result.Fatal[image.Image](common.QuotaExceeded("image generation quota exceeded, try again later", err))
		}
		return result.Fatal[image.Image](fmt.Errorf("failed to generate background: %w", err))
	}

	bounds := img.Bounds()
	if bounds.Dx() == Width && bounds.Dy() == Height {
		return result.Ok(img)
	}
	return result.Ok[image.Image](imaging.Resize(img, Width, Height, imaging.Lanczos))
}

func isQuotaExceeded(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	var requestErr *openai.RequestError
	if errors.As(err, &requestErr) && requestErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	if googleErr, ok := apierror.FromError(err); ok {
		if googleErr.GRPCStatus().Code() == codes.ResourceExhausted || googleErr.HTTPCode() == http.StatusTooManyRequests {
			return true
		}
	}
	if status.Code(err) == codes.ResourceExhausted {
		return true
	}
	// Some clients only report the status in the message.
	return quotaMessage.MatchString(err.Error())
}

// A bare "429" is not enough: it also shows up in sizes and ids.
var quotaMessage = regexp.MustCompile(`(?i)\b(?:error|status|code|http)[\s:=]*429\b|\b429 too many requests\b|\bquota\b|resource has been exhausted`)
