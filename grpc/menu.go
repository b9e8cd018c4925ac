// Package pb defines the MenuService wire messages and service descriptor.
//
// Messages travel as JSON (see codec.go) so the package has no generated
// protobuf code; field names follow the REST payloads.
package pb

// Box is a pixel rectangle with its origin at the top-left corner of the image.
type Box struct {
	X      int32 `json:"x"`
	Y      int32 `json:"y"`
	Width  int32 `json:"width"`
	Height int32 `json:"height"`
}

func (b *Box) GetX() int32 {
	if b == nil {
		return 0
	}
	return b.X
}

func (b *Box) GetY() int32 {
	if b == nil {
		return 0
	}
	return b.Y
}

func (b *Box) GetWidth() int32 {
	if b == nil {
		return 0
	}
	return b.Width
}

func (b *Box) GetHeight() int32 {
	if b == nil {
		return 0
	}
	return b.Height
}

type TextBlock struct {
	Id                 string  `json:"id"`
	Text               string  `json:"text"`
	Box                *Box    `json:"box"`
	Confidence         int32   `json:"confidence"`
	FontSize           int32   `json:"font_size"`
	FontNameSuggestion string  `json:"font_name_suggestion"`
	ColorRgb           []int32 `json:"color_rgb"`
	FontFile           string  `json:"font_file"`
}

func (t *TextBlock) GetText() string {
	if t == nil {
		return ""
	}
	return t.Text
}

func (t *TextBlock) GetBox() *Box {
	if t == nil {
		return nil
	}
	return t.Box
}

type TextArea struct {
	Id             string  `json:"id"`
	OriginalText   string  `json:"original_text"`
	Box            *Box    `json:"box"`
	ApproxFontSize int32   `json:"approx_font_size"`
	ApproxColorRgb []int32 `json:"approx_color_rgb"`
}

type AnalyzeMenuRequest struct {
	// Encoded PNG, JPEG or GIF bytes.
	Image []byte `json:"image"`
}

func (r *AnalyzeMenuRequest) GetImage() []byte {
	if r == nil {
		return nil
	}
	return r.Image
}

type AnalyzeMenuResponse struct {
	JobId      string       `json:"job_id"`
	TextBlocks []*TextBlock `json:"text_blocks"`
}

type ExtractTemplateRequest struct {
	Image []byte `json:"image"`
	// Optional. A new job id is generated when empty.
	JobId string `json:"job_id"`
}

func (r *ExtractTemplateRequest) GetImage() []byte {
	if r == nil {
		return nil
	}
	return r.Image
}

func (r *ExtractTemplateRequest) GetJobId() string {
	if r == nil {
		return ""
	}
	return r.JobId
}

type ExtractTemplateResponse struct {
	JobId         string      `json:"job_id"`
	TemplateImage []byte      `json:"template_image"`
	TextAreas     []*TextArea `json:"text_areas"`
}

type RenderMenuRequest struct {
	// XLSX workbook; the first sheet holds one placement per row.
	Spreadsheet    []byte `json:"spreadsheet"`
	ReferenceImage []byte `json:"reference_image"`
}

func (r *RenderMenuRequest) GetSpreadsheet() []byte {
	if r == nil {
		return nil
	}
	return r.Spreadsheet
}

func (r *RenderMenuRequest) GetReferenceImage() []byte {
	if r == nil {
		return nil
	}
	return r.ReferenceImage
}

type RenderMenuResponse struct {
	JobId     string `json:"job_id"`
	ResultUrl string `json:"result_url"`
}

type GetResultRequest struct {
	JobId string `json:"job_id"`
}

func (r *GetResultRequest) GetJobId() string {
	if r == nil {
		return ""
	}
	return r.JobId
}

type GetResultResponse struct {
	Image []byte `json:"image"`
}

type GetVersionRequest struct{}

type GetVersionResponse struct {
	Version string `json:"version"`
}
