package menu

import (
	"encoding/json"
	"fmt"

	"github.com/cardapio-project/cardapio/pkg/utils"
)

// AnalysisRecord is one entry of the analysis document returned by the upload endpoint.
type AnalysisRecord struct {
	Text               string `json:"text"`
	BoxPixels          [4]int `json:"box_pixels"`
	FontSize           int    `json:"font_size"`
	FontNameSuggestion string `json:"font_name_suggestion"`
	ColorRGB           [3]int `json:"color_rgb"`
	// Font file the suggestion resolves to; empty when the default font will be used.
	FontFile string `json:"font_file"`
}

// TextArea is one removed text region in a template's sidecar metadata.
type TextArea struct {
	ID             string `json:"id"`
	OriginalText   string `json:"original_text"`
	Box            [4]int `json:"box"`
	ApproxFontSize int    `json:"approx_font_size"`
	ApproxColorRGB [3]int `json:"approx_color_rgb"`
}

type TemplateMetadata struct {
	TextAreas []TextArea `json:"text_areas"`
}

// FontFileResolver maps a font name to the file it loads from, or "" when none exists.
type FontFileResolver func(fontName string) string

func AnalysisRecords(blocks []TextBlock, resolve FontFileResolver) []AnalysisRecord {
	return utils.Map(blocks, func(block TextBlock) AnalysisRecord {
		fontFile := ""
		if resolve != nil {
			fontFile = resolve(block.FontNameSuggestion)
		}
		return AnalysisRecord{
			Text:               block.Text,
			BoxPixels:          block.Box.Quad(),
			FontSize:           block.ApproxFontSize,
			FontNameSuggestion: block.FontNameSuggestion,
			ColorRGB:           block.Color.Triple(),
			FontFile:           fontFile,
		}
	})
}

func NewTemplateMetadata(blocks []TextBlock) TemplateMetadata {
	return TemplateMetadata{
		TextAreas: utils.Map(blocks, func(block TextBlock) TextArea {
			return TextArea{
				ID:             block.ID,
				OriginalText:   block.Text,
				Box:            block.Box.Quad(),
				ApproxFontSize: block.ApproxFontSize,
				ApproxColorRGB: block.Color.Triple(),
			}
		}),
	}
}

func (m TemplateMetadata) Marshal() ([]byte, error) {
	return json.MarshalIndent(m, "", "    ")
}

// ParseTemplateMetadata also checks that ids are unique, as a stored template may be hand edited.
func ParseTemplateMetadata(data []byte) (TemplateMetadata, error) {
	var metadata TemplateMetadata
	if err := json.Unmarshal(data, &metadata); err != nil {
		return TemplateMetadata{}, fmt.Errorf("failed to parse template metadata: %w", err)
	}
	seen := make(map[string]bool, len(metadata.TextAreas))
	for _, area := range metadata.TextAreas {
		if seen[area.ID] {
			return TemplateMetadata{}, fmt.Errorf("duplicate text area id %q", area.ID)
		}
		seen[area.ID] = true
	}
	return metadata, nil
}
