package style

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sort"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/cardapio-project/cardapio/grpc/impl/documentai"
	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/pkg/utils"
)

// Font weight thresholds based on standard CSS values.
const (
	regularWeight = 400
	boldWeight    = 700
)

type documentStyles struct {
	client documentai.Client
	spec   documentai.Spec
}

// NewDocumentAI infers styles from the per-token style info returned by a
// Document AI OCR processor with premium features enabled.
func NewDocumentAI(client documentai.Client, spec documentai.Spec) Inferrer {
	return &documentStyles{client: client, spec: spec}
}

func (d *documentStyles) Infer(ctx context.Context, img image.Image) (menu.StyleMap, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image for document ai: %w", err)
	}

	response, err := d.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: d.spec.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  buf.Bytes(),
				MimeType: "image/png",
			},
		},
		ProcessOptions: &documentaipb.ProcessOptions{
			OcrConfig: &documentaipb.OcrConfig{
				PremiumFeatures: &documentaipb.OcrConfig_PremiumFeatures{
					ComputeStyleInfo: true,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}

	return stylesFromDocument(response.GetDocument(), img.Bounds().Dy())
}

// tokenStyle is the style of one token, reduced to what a StyleRegion needs.
type tokenStyle struct {
	label      menu.Label
	color      colorful.Color
	fontType   string
	fontWeight int
}

func stylesFromDocument(document *documentaipb.Document, imageHeight int) (menu.StyleMap, error) {
	tokens := utils.FlatMap(document.GetPages(), func(page *documentaipb.Document_Page) []tokenStyle {
		height := imageHeight
		if pageHeight := int(page.GetDimension().GetHeight()); pageHeight > 0 {
			height = pageHeight
		}
		return utils.Map(page.GetTokens(), func(token *documentaipb.Document_Page_Token) tokenStyle {
			poly := token.GetLayout().GetBoundingPoly()
			top := utils.Reduce(poly.GetVertices(), func(top int, vertex *documentaipb.Vertex) int {
				return min(top, int(vertex.GetY()))
			}, height)
			if len(poly.GetVertices()) == 0 {
				top = utils.Reduce(poly.GetNormalizedVertices(), func(top int, vertex *documentaipb.NormalizedVertex) int {
					return min(top, int(vertex.GetY()*float32(height)))
				}, height)
			}

			styleInfo := token.GetStyleInfo()
			// FontWeight is 0 when Document AI has no numeric weight; fall back to the bold flag.
			fontWeight := int(styleInfo.GetFontWeight())
			if fontWeight == 0 {
				fontWeight = regularWeight
				if styleInfo.GetBold() {
					fontWeight = boldWeight
				}
			}

			return tokenStyle{
				label: menu.BandAt(top, height),
				color: colorful.Color{
					R: float64(styleInfo.GetTextColor().GetRed()),
					G: float64(styleInfo.GetTextColor().GetGreen()),
					B: float64(styleInfo.GetTextColor().GetBlue()),
				},
				fontType:   strings.TrimSpace(styleInfo.GetFontType()),
				fontWeight: fontWeight,
			}
		})
	})
	if len(tokens) == 0 {
		return nil, fmt.Errorf("document ai found no text")
	}

	styles := menu.StyleMap{}
	for _, label := range []menu.Label{menu.LabelTitle, menu.LabelItemList} {
		band := utils.Filter(tokens, func(token tokenStyle) bool {
			return token.label == label
		})
		if len(band) == 0 {
			continue
		}
		styles[label] = regionOf(label, band)
	}
	return styles, nil
}

func regionOf(label menu.Label, tokens []tokenStyle) menu.StyleRegion {
	sum := utils.Reduce(tokens, func(sum colorful.Color, token tokenStyle) colorful.Color {
		return colorful.Color{R: sum.R + token.color.R, G: sum.G + token.color.G, B: sum.B + token.color.B}
	}, colorful.Color{})
	n := float64(len(tokens))
	r, g, b := colorful.Color{R: sum.R / n, G: sum.G / n, B: sum.B / n}.Clamped().RGB255()

	bold := len(utils.Filter(tokens, func(token tokenStyle) bool {
		return token.fontWeight >= boldWeight
	}))

	family := mostCommon(utils.Map(tokens, func(token tokenStyle) string {
		return token.fontType
	}))
	if family == "" {
		family = "Arial"
		if label == menu.LabelTitle {
			family = "Georgia"
		}
	}
	if 2*bold >= len(tokens) {
		family += "-Bold"
	}

	return menu.StyleRegion{FontName: family, Color: menu.RGB{R: r, G: g, B: b}}
}

// mostCommon returns the most frequent non-empty value, breaking ties alphabetically.
func mostCommon(values []string) string {
	counts := map[string]int{}
	for _, value := range values {
		if value != "" {
			counts[value]++
		}
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
