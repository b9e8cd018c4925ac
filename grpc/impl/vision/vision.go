package vision

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math"

	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	gax "github.com/googleapis/gax-go/v2"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/grpc/impl/ocr"
	"github.com/cardapio-project/cardapio/pkg/common"
	"github.com/cardapio-project/cardapio/pkg/utils"
)

// Client is an interface for the vision.ImageAnnotatorClient
// Ref: https://pkg.go.dev/cloud.google.com/go/vision/apiv1
// This interface is used for mocking the vision.ImageAnnotatorClient in unit tests.
type Client interface {
	DetectDocumentText(ctx context.Context, image *visionpb.Image, imageContext *visionpb.ImageContext, opts ...gax.CallOption) (*visionpb.TextAnnotation, error)
}

type detector struct {
	client Client
	config ocr.Config
}

// New returns a detector backed by Google Cloud Vision document text detection.
// config.Credentials is consumed when the client is built, not here.
func New(client Client, config ocr.Config) ocr.Detector {
	return &detector{client: client, config: config}
}

func (d *detector) Detect(ctx context.Context, img image.Image) ([]menu.Detection, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	var imageContext *visionpb.ImageContext
	if d.config.LanguageHint != "" {
		imageContext = &visionpb.ImageContext{LanguageHints: []string{d.config.LanguageHint}}
	}

	textAnnotation, err := d.client.DetectDocumentText(ctx, &visionpb.Image{Content: buf.Bytes()}, imageContext)
	if err != nil {
		return nil, common.EngineUnavailable("vision document text detection failed", err)
	}

	return textAnnotationToDetections(textAnnotation), nil
}

func textAnnotationToDetections(textAnnotation *visionpb.TextAnnotation) []menu.Detection {
	blocks := utils.FlatMap(textAnnotation.GetPages(), func(page *visionpb.Page) []*visionpb.Block {
		return page.GetBlocks()
	})
	paragraphs := utils.FlatMap(blocks, func(block *visionpb.Block) []*visionpb.Paragraph {
		return block.GetParagraphs()
	})
	words := utils.FlatMap(paragraphs, func(paragraph *visionpb.Paragraph) []*visionpb.Word {
		return paragraph.GetWords()
	})

	return utils.Map(words, func(word *visionpb.Word) menu.Detection {
		// Vertices may be rotated for skewed photos, so the box is their axis-aligned hull.
		hull := utils.Reduce(word.GetBoundingBox().GetVertices(), func(hull image.Rectangle, vertex *visionpb.Vertex) image.Rectangle {
			return image.Rectangle{
				Min: image.Pt(min(hull.Min.X, int(vertex.GetX())), min(hull.Min.Y, int(vertex.GetY()))),
				Max: image.Pt(max(hull.Max.X, int(vertex.GetX())), max(hull.Max.Y, int(vertex.GetY()))),
			}
		}, image.Rectangle{
			Min: image.Pt(math.MaxInt32, math.MaxInt32),
			Max: image.Pt(0, 0),
		})
		// Vertices may fall left of or above the frame; keep only the visible part.
		hull = hull.Intersect(image.Rect(0, 0, math.MaxInt32, math.MaxInt32))

		return menu.Detection{
			Text: utils.Reduce(word.GetSymbols(), func(text string, symbol *visionpb.Symbol) string {
				return text + symbol.GetText()
			}, ""),
			Box: menu.Box{
				X:      hull.Min.X,
				Y:      hull.Min.Y,
				Width:  hull.Dx(),
				Height: hull.Dy(),
			},
			// Vision reports confidence in 0..1.
			Confidence: int(math.Round(float64(word.GetConfidence()) * 100)),
		}
	})
}
