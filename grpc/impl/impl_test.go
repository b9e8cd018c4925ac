package impl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/cardapio-project/cardapio/grpc/impl/font"
	"github.com/cardapio-project/cardapio/grpc/impl/inpaint"
	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/grpc/impl/storage"
	"github.com/cardapio-project/cardapio/grpc/impl/style"
	"github.com/cardapio-project/cardapio/pkg/common"
)

const testVersion = "11.0-final-image-gen"

type fakeDetector struct {
	detections []menu.Detection
	err        error
}

func (f *fakeDetector) Detect(ctx context.Context, img image.Image) ([]menu.Detection, error) {
	return f.detections, f.err
}

type failingInferrer struct{}

func (failingInferrer) Infer(ctx context.Context, img image.Image) (menu.StyleMap, error) {
	return nil, errors.New("style service unreachable")
}

type fakeGenerator struct {
	err   error
	calls int
}

func (f *fakeGenerator) Generate(ctx context.Context, reference image.Image) (image.Image, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return uniform(400, 600, color.White), nil
}

type fixture struct {
	server    *server
	store     storage.JobStore
	generator *fakeGenerator
	mux       *http.ServeMux
}

func newFixture(t *testing.T, detector *fakeDetector) *fixture {
	t.Helper()
	fonts, err := font.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := storage.NewMemory()
	generator := &fakeGenerator{}
	s := New(
		detector,
		style.New(failingInferrer{}, style.DefaultTimeout),
		inpaint.NewTelea(inpaint.Radius),
		fonts,
		generator,
		store,
		testVersion,
	)
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return &fixture{server: s, store: store, generator: generator, mux: mux}
}

func uniform(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func pngOf(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// multipartRequest builds a POST whose files are given by field name; values are plain form fields.
func multipartRequest(t *testing.T, target string, files map[string][]byte, values map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for field, data := range files {
		part, err := writer.CreateFormFile(field, field+".bin")
		if err != nil {
			t.Fatal(err)
		}
		part.Write(data)
	}
	for field, value := range values {
		if err := writer.WriteField(field, value); err != nil {
			t.Fatal(err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func serve(f *fixture, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	f.mux.ServeHTTP(recorder, req)
	return recorder
}

var menuDetection = menu.Detection{Text: "MENU", Box: menu.Box{X: 50, Y: 10, Width: 200, Height: 40}, Confidence: 95}

func TestAnalyzeMenuScenario(t *testing.T) {
	f := newFixture(t, &fakeDetector{detections: []menu.Detection{
		menuDetection,
		{Text: "blurry", Box: menu.Box{X: 50, Y: 500, Width: 100, Height: 20}, Confidence: 50},
	}})

	req := multipartRequest(t, "/api/menu/analyze", map[string][]byte{"file": pngOf(t, uniform(600, 800, color.White))}, nil)
	recorder := serve(f, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body)
	}

	var response analyzeResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	want := []menu.AnalysisRecord{{
		Text:               "MENU",
		BoxPixels:          [4]int{50, 10, 200, 40},
		FontSize:           40,
		FontNameSuggestion: menu.DefaultTitleFont,
		ColorRGB:           menu.DefaultTitleColor.Triple(),
	}}
	if !reflect.DeepEqual(response.TextBlocks, want) {
		t.Errorf("text_blocks = %+v, want %+v", response.TextBlocks, want)
	}

	ctx := context.Background()
	stored, err := f.store.Get(ctx, response.JobID, storage.KindAnalysis)
	if err != nil {
		t.Fatalf("analysis not stored: %v", err)
	}
	var records []menu.AnalysisRecord
	if err := json.Unmarshal(stored, &records); err != nil || !reflect.DeepEqual(records, want) {
		t.Errorf("stored analysis = %s (%v)", stored, err)
	}
	if _, err := f.store.Get(ctx, response.JobID, storage.KindUpload); err != nil {
		t.Errorf("upload not stored: %v", err)
	}
}

func TestAnalyzeMenuErrors(t *testing.T) {
	tests := []struct {
		name     string
		detector *fakeDetector
		files    map[string][]byte
		want     int
	}{
		{
			name:     "missing file",
			detector: &fakeDetector{},
			files:    map[string][]byte{"other": {1}},
			want:     http.StatusBadRequest,
		},
		{
			name:     "not an image",
			detector: &fakeDetector{},
			files:    map[string][]byte{"file": []byte("plain text")},
			want:     http.StatusBadRequest,
		},
		{
			name:     "engine unavailable",
			detector: &fakeDetector{err: common.EngineUnavailable("tesseract recognition failed", errors.New("boom"))},
			files:    map[string][]byte{"file": nil},
			want:     http.StatusServiceUnavailable,
		},
		{
			name:     "unexpected failure",
			detector: &fakeDetector{err: errors.New("segfault in engine")},
			files:    map[string][]byte{"file": nil},
			want:     http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.detector)
			if data, ok := tt.files["file"]; ok && data == nil {
				tt.files["file"] = pngOf(t, uniform(60, 80, color.White))
			}

			recorder := serve(f, multipartRequest(t, "/api/menu/analyze", tt.files, nil))
			if recorder.Code != tt.want {
				t.Fatalf("status = %d, want %d (body %s)", recorder.Code, tt.want, recorder.Body)
			}

			var body map[string]string
			if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if tt.want == http.StatusInternalServerError && body["detail"] != "internal error" {
				t.Errorf("detail = %q leaks internals", body["detail"])
			}
		})
	}
}

func TestTemplateEndpoint(t *testing.T) {
	img := uniform(120, 90, color.White)
	draw.Draw(img, image.Rect(30, 20, 70, 35), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	f := newFixture(t, &fakeDetector{detections: []menu.Detection{
		{Text: "Feijoada", Box: menu.Box{X: 30, Y: 20, Width: 40, Height: 15}, Confidence: 91},
		{Text: "smudge", Box: menu.Box{X: 5, Y: 70, Width: 10, Height: 10}, Confidence: 60},
	}})
	jobID := uuid.NewString()

	recorder := serve(f, multipartRequest(t, "/api/menu/template",
		map[string][]byte{"file": pngOf(t, img)},
		map[string]string{"job_id": jobID},
	))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body)
	}

	var response templateResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response.Status != statusSuccess || response.JobID != jobID || response.TemplateURL != "/download/template/"+jobID {
		t.Errorf("response = %+v", response)
	}
	if len(response.Metadata.TextAreas) != 1 {
		t.Fatalf("text_areas = %+v, want only the confident detection", response.Metadata.TextAreas)
	}
	area := response.Metadata.TextAreas[0]
	if area.OriginalText != "Feijoada" || area.Box != [4]int{30, 20, 40, 15} || area.ApproxFontSize != 15 {
		t.Errorf("text area = %+v", area)
	}

	download := serve(f, httptest.NewRequest(http.MethodGet, response.TemplateURL, nil))
	if download.Code != http.StatusOK || download.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("template download = %d %q", download.Code, download.Header().Get("Content-Type"))
	}
	template, err := png.Decode(download.Body)
	if err != nil {
		t.Fatal(err)
	}
	if template.Bounds() != img.Bounds() {
		t.Errorf("template bounds = %v, want %v", template.Bounds(), img.Bounds())
	}
	r, g, b, _ := template.At(50, 27).RGBA()
	if r>>8 < 200 || g>>8 < 200 || b>>8 < 200 {
		t.Errorf("text pixel not removed: %d %d %d", r>>8, g>>8, b>>8)
	}

	metadata := serve(f, httptest.NewRequest(http.MethodGet, "/download/metadata/"+jobID, nil))
	if metadata.Code != http.StatusOK {
		t.Fatalf("metadata download = %d", metadata.Code)
	}
	parsed, err := menu.ParseTemplateMetadata(metadata.Body.Bytes())
	if err != nil || len(parsed.TextAreas) != 1 {
		t.Errorf("stored metadata = %+v (%v)", parsed, err)
	}
}

func TestTemplateEndpointRejectsBadJobID(t *testing.T) {
	f := newFixture(t, &fakeDetector{})
	recorder := serve(f, multipartRequest(t, "/api/menu/template",
		map[string][]byte{"file": pngOf(t, uniform(10, 10, color.White))},
		map[string]string{"job_id": "../../etc"},
	))
	if recorder.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", recorder.Code)
	}
}

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	file := excelize.NewFile()
	defer file.Close()
	for i, values := range rows {
		if err := file.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &values); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := file.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRenderEndpoint(t *testing.T) {
	f := newFixture(t, &fakeDetector{})
	spreadsheet := workbook(t,
		[]any{"text", "font_size", "color"},
		[]any{"Cardápio", 48, "#8B0000"},
		[]any{"Feijoada R$ 45", "", ""},
	)

	recorder := serve(f, multipartRequest(t, "/api/menu/render", map[string][]byte{
		"excel":         spreadsheet,
		"original_menu": pngOf(t, uniform(300, 450, color.White)),
	}, nil))
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body)
	}

	var response renderResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response.Status != statusSuccess || response.ResultURL != "/download/result/"+response.JobID {
		t.Errorf("response = %+v", response)
	}

	download := serve(f, httptest.NewRequest(http.MethodGet, response.ResultURL, nil))
	if download.Code != http.StatusOK {
		t.Fatalf("result download = %d", download.Code)
	}
	result, err := png.Decode(download.Body)
	if err != nil {
		t.Fatal(err)
	}
	if size := result.Bounds().Size(); size != image.Pt(800, 1200) {
		t.Errorf("result size = %v, want 800x1200", size)
	}
}

func TestRenderEndpointErrors(t *testing.T) {
	reference := pngOf(t, uniform(30, 45, color.White))

	tests := []struct {
		name          string
		files         map[string][]byte
		generatorErr  error
		want          int
		wantGenerated bool
	}{
		{
			name:  "missing spreadsheet",
			files: map[string][]byte{"original_menu": reference},
			want:  http.StatusBadRequest,
		},
		{
			name:  "spreadsheet is not xlsx",
			files: map[string][]byte{"excel": []byte("a,b,c"), "original_menu": reference},
			want:  http.StatusBadRequest,
		},
		{
			name:          "quota exceeded",
			files:         map[string][]byte{"excel": nil, "original_menu": reference},
			generatorErr:  errors.New("googleapi: Error 429: Resource has been exhausted"),
			want:          http.StatusTooManyRequests,
			wantGenerated: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &fakeDetector{})
			f.generator.err = tt.generatorErr
			if data, ok := tt.files["excel"]; ok && data == nil {
				tt.files["excel"] = workbook(t, []any{"text"}, []any{"Pizza"})
			}

			recorder := serve(f, multipartRequest(t, "/api/menu/render", tt.files, nil))
			if recorder.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", recorder.Code, tt.want, recorder.Body)
			}
			if generated := f.generator.calls > 0; generated != tt.wantGenerated {
				t.Errorf("generator called = %v, want %v", generated, tt.wantGenerated)
			}
		})
	}
}

func TestDownloadErrors(t *testing.T) {
	f := newFixture(t, &fakeDetector{})
	tests := []struct {
		target string
		want   int
	}{
		{"/download/result/" + uuid.NewString(), http.StatusNotFound},
		{"/download/template/" + uuid.NewString(), http.StatusNotFound},
		{"/download/metadata/not-a-job", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if recorder := serve(f, httptest.NewRequest(http.MethodGet, tt.target, nil)); recorder.Code != tt.want {
				t.Errorf("status = %d, want %d", recorder.Code, tt.want)
			}
		})
	}
}

func TestMetadataDownloadRejectsCorruptDocument(t *testing.T) {
	f := newFixture(t, &fakeDetector{})
	tests := []struct {
		name     string
		document string
		want     int
	}{
		{"valid", `{"text_areas":[{"id":"a","original_text":"MENU","box":[1,2,3,4]}]}`, http.StatusOK},
		{"duplicate ids", `{"text_areas":[{"id":"a"},{"id":"a"}]}`, http.StatusInternalServerError},
		{"not json", `text_areas: []`, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobID := uuid.NewString()
			if err := f.store.Put(context.Background(), jobID, storage.KindTemplateMetadata, []byte(tt.document)); err != nil {
				t.Fatal(err)
			}
			recorder := serve(f, httptest.NewRequest(http.MethodGet, "/download/metadata/"+jobID, nil))
			if recorder.Code != tt.want {
				t.Fatalf("status = %d, want %d", recorder.Code, tt.want)
			}
			if tt.want == http.StatusOK && recorder.Body.String() != tt.document {
				t.Errorf("body = %q, want the stored document", recorder.Body)
			}
		})
	}
}

func TestVersionEndpoint(t *testing.T) {
	f := newFixture(t, &fakeDetector{})
	recorder := serve(f, httptest.NewRequest(http.MethodGet, "/verversao", nil))
	if recorder.Code != http.StatusOK || recorder.Body.String() != testVersion {
		t.Errorf("GET /verversao = %d %q", recorder.Code, recorder.Body)
	}
	if contentType := recorder.Header().Get("Content-Type"); contentType != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q", contentType)
	}
}
