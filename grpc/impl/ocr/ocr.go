// Package ocr defines the contract every text detection backend implements.
package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/pkg/result"
)

// Config is handed to a backend when it is constructed. Backends read nothing
// from the process environment themselves.
type Config struct {
	// Path of the engine's data, e.g. the tessdata directory. Empty uses the engine default.
	EnginePath string
	// Credentials file for hosted engines. Empty uses application default credentials.
	Credentials string
	// Engine language code(s), e.g. "por" for Tesseract or "pt" for Google Vision.
	LanguageHint string
}

// Detector recognizes text in an image. Results carry no ordering guarantee.
//
// Implementations return an error of kind common.KindEngineUnavailable when the
// engine cannot be reached or fails outright.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]menu.Detection, error)
}

type thresholdDetector struct {
	detector  Detector
	threshold int
}

// WithThreshold wraps a backend so it only returns detections accepted into
// the data model: confidence above threshold, boxes clipped to the image.
func WithThreshold(detector Detector, threshold int) Detector {
	return &thresholdDetector{detector: detector, threshold: threshold}
}

func (d *thresholdDetector) Detect(ctx context.Context, img image.Image) ([]menu.Detection, error) {
	detections, err := d.detector.Detect(ctx, img)
	if err != nil {
		return nil, err
	}
	return menu.Accept(detections, img.Bounds(), d.threshold), nil
}

// Detect runs detector once. Nothing can stand in for missing text, so any
// failure is Fatal and keeps the backend's error kind.
func Detect(ctx context.Context, detector Detector, img image.Image) result.Result[[]menu.Detection] {
	detections, err := detector.Detect(ctx, img)
	if err != nil {
		return result.Fatal[[]menu.Detection](fmt.Errorf("failed to detect text: %w", err))
	}
	return result.Ok(detections)
}
