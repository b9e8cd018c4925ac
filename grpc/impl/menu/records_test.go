package menu

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestTemplateMetadataDocument(t *testing.T) {
	blocks := []TextBlock{
		{ID: "a1", Text: "Sobremesas", Box: Box{X: 12, Y: 400, Width: 180, Height: 30}, ApproxFontSize: 30, Color: RGB{R: 1, G: 2, B: 3}},
	}

	data, err := NewTemplateMetadata(blocks).Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var document map[string][]map[string]any
	if err := json.Unmarshal(data, &document); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	areas := document["text_areas"]
	if len(areas) != 1 {
		t.Fatalf("text_areas has %d entries", len(areas))
	}
	for _, key := range []string{"id", "original_text", "box", "approx_font_size", "approx_color_rgb"} {
		if _, ok := areas[0][key]; !ok {
			t.Errorf("text area is missing %q", key)
		}
	}
}

func TestParseTemplateMetadataRejectsDuplicateIDs(t *testing.T) {
	data := `{"text_areas":[{"id":"x","original_text":"a"},{"id":"x","original_text":"b"}]}`
	_, err := ParseTemplateMetadata([]byte(data))
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("ParseTemplateMetadata err = %v, want duplicate id error", err)
	}
}

func TestAnalysisRecordsResolveFontFile(t *testing.T) {
	blocks := []TextBlock{{Text: "Bebidas", FontNameSuggestion: "Arial", Box: Box{Width: 1, Height: 9}, ApproxFontSize: 9}}
	records := AnalysisRecords(blocks, func(name string) string {
		return "fonts/" + strings.ToLower(name) + ".ttf"
	})
	if records[0].FontFile != "fonts/arial.ttf" {
		t.Errorf("font_file = %q", records[0].FontFile)
	}

	data, err := json.Marshal(records[0])
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"box_pixels":[0,0,1,9]`) {
		t.Errorf("unexpected record JSON %s", data)
	}
}
