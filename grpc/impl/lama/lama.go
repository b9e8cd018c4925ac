// Package lama fills masked regions through a hosted LaMa inpainting service.
// Ref: https://github.com/advimman/lama
package lama

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"

	"github.com/cardapio-project/cardapio/grpc/impl/inpaint"
	"github.com/cardapio-project/cardapio/pkg/common"
)

// HTTPClient is satisfied by *http.Client and replaced in unit tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type client struct {
	httpClient HTTPClient
	endpoint   string
	apiKey     string
}

// New returns a Filler posting the canvas and mask to <host>/inpaint.
// apiKey is sent as a bearer token when set.
func New(httpClient HTTPClient, host string, apiKey string) inpaint.Filler {
	return &client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(host, "/") + "/inpaint",
		apiKey:     apiKey,
	}
}

func (c *client) Fill(ctx context.Context, canvas *image.RGBA, mask *image.Gray) error {
	body, contentType, err := multipartBody(canvas, mask)
	if err != nil {
		return err
	}

	filled, err := c.inpaint(ctx, body, contentType)
	if err != nil {
		return common.EngineUnavailable("lama inpainting failed", err)
	}

	bounds := canvas.Bounds()
	if filled.Bounds().Dx() != bounds.Dx() || filled.Bounds().Dy() != bounds.Dy() {
		log.Warn().Msgf("LaMa returned %v for a %v canvas, resizing", filled.Bounds().Size(), bounds.Size())
		filled = imaging.Resize(filled, bounds.Dx(), bounds.Dy(), imaging.Lanczos)
	}

	// Only masked pixels are taken from the service; the rest of the canvas
	// keeps earlier fills.
	origin := filled.Bounds().Min
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y == 0 {
				continue
			}
			canvas.Set(x, y, filled.At(origin.X+x-bounds.Min.X, origin.Y+y-bounds.Min.Y))
		}
	}
	return nil
}

func (c *client) inpaint(ctx context.Context, body []byte, contentType string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("lama returned %d: %s", resp.StatusCode, strings.TrimSpace(string(message)))
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode lama response: %w", err)
	}
	return img, nil
}

func multipartBody(canvas *image.RGBA, mask *image.Gray) ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, part := range []struct {
		field string
		img   image.Image
	}{
		{"image", canvas},
		{"mask", mask},
	} {
		w, err := writer.CreateFormFile(part.field, part.field+".png")
		if err != nil {
			return nil, "", err
		}
		if err := png.Encode(w, part.img); err != nil {
			return nil, "", fmt.Errorf("failed to encode %s: %w", part.field, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}
