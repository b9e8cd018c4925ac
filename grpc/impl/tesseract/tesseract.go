// Package tesseract detects words with a local Tesseract engine. The engine
// binding needs cgo; other builds report the engine as unavailable.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/grpc/impl/ocr"
	"github.com/cardapio-project/cardapio/pkg/common"
	"github.com/cardapio-project/cardapio/pkg/utils"
)

// Menus are photographed in Brazil, so Portuguese is the default language.
const DefaultLanguage = "por"

// word is one word-level box as the engine reports it.
type word struct {
	text       string
	box        image.Rectangle
	confidence float64
}

// engine is one Tesseract session. Sessions are not safe for concurrent use.
type engine interface {
	SetTessdataPrefix(prefix string) error
	SetLanguage(langs ...string) error
	SetImageFromBytes(data []byte) error
	Words() ([]word, error)
	Close() error
}

type detector struct {
	config    ocr.Config
	newEngine func() (engine, error)
}

func New(config ocr.Config) ocr.Detector {
	return newDetector(config, newGosseractEngine)
}

func newDetector(config ocr.Config, newEngine func() (engine, error)) *detector {
	if config.LanguageHint == "" {
		config.LanguageHint = DefaultLanguage
	}
	return &detector{config: config, newEngine: newEngine}
}

func (d *detector) Detect(ctx context.Context, img image.Image) ([]menu.Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for tesseract: %w", err)
	}

	session, err := d.newEngine()
	if err != nil {
		return nil, common.EngineUnavailable("tesseract is not available", err)
	}
	defer session.Close()

	if d.config.EnginePath != "" {
		if err := session.SetTessdataPrefix(d.config.EnginePath); err != nil {
			return nil, common.EngineUnavailable("tesseract data path rejected", err)
		}
	}
	if err := session.SetLanguage(d.config.LanguageHint); err != nil {
		return nil, common.EngineUnavailable("tesseract language rejected", err)
	}
	if err := session.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, common.EngineUnavailable("tesseract could not load the image", err)
	}

	words, err := session.Words()
	if err != nil {
		return nil, common.EngineUnavailable("tesseract recognition failed", err)
	}

	return utils.Map(words, toDetection), nil
}

// Confidence is rounded half away from zero, so 60.5 passes a threshold of 60.
func toDetection(w word) menu.Detection {
	return menu.Detection{
		Text: w.text,
		Box: menu.Box{
			X:      w.box.Min.X,
			Y:      w.box.Min.Y,
			Width:  w.box.Dx(),
			Height: w.box.Dy(),
		},
		Confidence: int(math.Round(w.confidence)),
	}
}
