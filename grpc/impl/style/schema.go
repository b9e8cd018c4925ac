package style

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
)

// Prompt asks a vision model for the style of each band as JSON matching styleSchema.
const Prompt = `You are looking at a photograph of a restaurant menu.
Describe the typography of its two regions:
- "title": the menu heading and section names at the top;
- "item-list": the dishes and prices below.
For each region answer the closest common font name (for example "Georgia-Bold", "Arial", "Times New Roman")
and the dominant text color as an [r, g, b] array of integers between 0 and 255.
Answer with JSON only, shaped like:
{"title": {"font_name": "Georgia-Bold", "color": [139, 0, 0]}, "item-list": {"font_name": "Arial", "color": [64, 64, 64]}}`

const styleSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"minProperties": 1,
	"additionalProperties": {"$ref": "#/$defs/region"},
	"$defs": {
		"region": {
			"type": "object",
			"required": ["font_name", "color"],
			"properties": {
				"font_name": {"type": "string", "minLength": 1},
				"color": {
					"type": "array",
					"minItems": 3,
					"maxItems": 3,
					"items": {"type": "integer", "minimum": 0, "maximum": 255}
				}
			}
		}
	}
}`

var compiledSchema = jsonschema.MustCompileString("style.json", styleSchema)

type region struct {
	FontName string `json:"font_name"`
	Color    [3]int `json:"color"`
}

// ParseStyleMap validates a model answer and converts it into a StyleMap.
// Code fences around the JSON are tolerated; labels other than title and
// item-list are ignored.
func ParseStyleMap(answer string) (menu.StyleMap, error) {
	data := []byte(stripCodeFence(answer))

	var document any
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("style answer is not JSON: %w", err)
	}
	if err := compiledSchema.Validate(document); err != nil {
		return nil, fmt.Errorf("style answer does not match the schema: %w", err)
	}

	var regions map[string]region
	if err := json.Unmarshal(data, &regions); err != nil {
		return nil, fmt.Errorf("failed to decode style answer: %w", err)
	}

	styles := menu.StyleMap{}
	for _, label := range []menu.Label{menu.LabelTitle, menu.LabelItemList} {
		r, ok := regions[string(label)]
		if !ok {
			continue
		}
		styles[label] = menu.StyleRegion{
			FontName: strings.TrimSpace(r.FontName),
			Color:    menu.RGB{R: uint8(r.Color[0]), G: uint8(r.Color[1]), B: uint8(r.Color[2])},
		}
	}
	if len(styles) == 0 {
		return nil, fmt.Errorf("style answer has neither %q nor %q", menu.LabelTitle, menu.LabelItemList)
	}
	return styles, nil
}

// Models often wrap JSON in a ```json block even when asked not to.
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}
