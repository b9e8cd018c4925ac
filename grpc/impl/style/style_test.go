package style

import (
	"context"
	"errors"
	"image"
	"reflect"
	"strings"
	"testing"
	"time"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genproto/googleapis/type/color"

	"github.com/cardapio-project/cardapio/grpc/impl/documentai"
	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/pkg/common"
)

type fakeInferrer struct {
	styles menu.StyleMap
	err    error
	block  bool
}

func (f *fakeInferrer) Infer(ctx context.Context, img image.Image) (menu.StyleMap, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.styles, f.err
}

func TestInferStyles(t *testing.T) {
	inferred := menu.StyleMap{menu.LabelTitle: {FontName: "Lobster", Color: menu.RGB{R: 1, G: 2, B: 3}}}

	tests := []struct {
		name         string
		inferrer     Inferrer
		wantDegraded bool
		want         menu.StyleMap
	}{
		{name: "ok", inferrer: &fakeInferrer{styles: inferred}, want: inferred},
		{name: "backend error", inferrer: &fakeInferrer{err: errors.New("connection refused")}, wantDegraded: true, want: menu.DefaultStyles()},
		{name: "empty answer", inferrer: &fakeInferrer{styles: menu.StyleMap{}}, wantDegraded: true, want: menu.DefaultStyles()},
		{name: "timeout", inferrer: &fakeInferrer{block: true}, wantDegraded: true, want: menu.DefaultStyles()},
		{name: "no backend", inferrer: nil, wantDegraded: true, want: menu.DefaultStyles()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := New(tt.inferrer, 20*time.Millisecond)
			got := adapter.InferStyles(context.Background(), image.NewRGBA(image.Rect(0, 0, 10, 10)))

			if got.IsFatal() {
				t.Fatalf("InferStyles returned Fatal: %v", got.Reason())
			}
			if got.IsDegraded() != tt.wantDegraded {
				t.Fatalf("degraded = %v, want %v", got.IsDegraded(), tt.wantDegraded)
			}
			if tt.wantDegraded && !common.IsKind(got.Reason(), common.KindStyleInferenceDegraded) {
				t.Errorf("reason = %v, want StyleInferenceDegraded", got.Reason())
			}
			if !reflect.DeepEqual(got.Value(), tt.want) {
				t.Errorf("styles = %+v, want %+v", got.Value(), tt.want)
			}
		})
	}
}

func TestParseStyleMap(t *testing.T) {
	tests := []struct {
		name    string
		answer  string
		want    menu.StyleMap
		wantErr bool
	}{
		{
			name:   "both regions",
			answer: `{"title": {"font_name": "Lobster", "color": [200, 10, 0]}, "item-list": {"font_name": "Roboto", "color": [0, 0, 0]}}`,
			want: menu.StyleMap{
				menu.LabelTitle:    {FontName: "Lobster", Color: menu.RGB{R: 200, G: 10}},
				menu.LabelItemList: {FontName: "Roboto", Color: menu.RGB{}},
			},
		},
		{
			name:   "code fence and extra labels",
			answer: "```json\n{\"title\": {\"font_name\": \"Lobster\", \"color\": [1, 2, 3]}, \"footer\": {\"font_name\": \"X\", \"color\": [0, 0, 0]}}\n```",
			want:   menu.StyleMap{menu.LabelTitle: {FontName: "Lobster", Color: menu.RGB{R: 1, G: 2, B: 3}}},
		},
		{name: "not json", answer: "I think the title is red", wantErr: true},
		{name: "color out of range", answer: `{"title": {"font_name": "A", "color": [300, 0, 0]}}`, wantErr: true},
		{name: "color with two channels", answer: `{"title": {"font_name": "A", "color": [1, 2]}}`, wantErr: true},
		{name: "missing font", answer: `{"title": {"color": [1, 2, 3]}}`, wantErr: true},
		{name: "fractional channel", answer: `{"title": {"font_name": "A", "color": [1.5, 2, 3]}}`, wantErr: true},
		{name: "only unknown labels", answer: `{"footer": {"font_name": "A", "color": [1, 2, 3]}}`, wantErr: true},
		{name: "empty object", answer: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStyleMap(tt.answer)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("styles = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type fakeChatClient struct {
	request  openai.ChatCompletionRequest
	response openai.ChatCompletionResponse
	err      error
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.request = request
	return f.response, f.err
}

func answer(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: content}}}}
}

func TestChatInfer(t *testing.T) {
	client := &fakeChatClient{response: answer(`{"item-list": {"font_name": "Roboto", "color": [10, 20, 30]}}`)}

	styles, err := NewChat(client, openai.GPT4o).Infer(context.Background(), image.NewRGBA(image.Rect(0, 0, 2000, 100)))
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	want := menu.StyleMap{menu.LabelItemList: {FontName: "Roboto", Color: menu.RGB{R: 10, G: 20, B: 30}}}
	if !reflect.DeepEqual(styles, want) {
		t.Errorf("styles = %+v, want %+v", styles, want)
	}

	request := client.request
	if request.Model != openai.GPT4o {
		t.Errorf("model = %q", request.Model)
	}
	if request.ResponseFormat == nil || request.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Errorf("response format = %+v, want json_object", request.ResponseFormat)
	}
	parts := request.Messages[0].MultiContent
	if len(parts) != 2 || parts[0].Text != Prompt || !strings.HasPrefix(parts[1].ImageURL.URL, "data:image/jpeg;base64,") {
		t.Errorf("message parts = %+v", parts)
	}
}

func TestChatInferFailures(t *testing.T) {
	tests := []struct {
		name   string
		client *fakeChatClient
	}{
		{name: "request error", client: &fakeChatClient{err: errors.New("429 Too Many Requests")}},
		{name: "no choices", client: &fakeChatClient{}},
		{name: "malformed answer", client: &fakeChatClient{response: answer(`{"title": "red"}`)}},
		{name: "refused answer", client: &fakeChatClient{response: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Refusal: "no"}}}}}},
		{name: "blank answer", client: &fakeChatClient{response: answer("  ")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewChat(tt.client, openai.GPT4o).Infer(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4))); err == nil {
				t.Error("Infer succeeded")
			}
		})
	}
}

type fakeDocumentClient struct {
	request  *documentaipb.ProcessRequest
	document *documentaipb.Document
	err      error
}

func (f *fakeDocumentClient) ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error) {
	f.request = req
	return &documentaipb.ProcessResponse{Document: f.document}, f.err
}

func token(top int32, bold bool, fontType string, r, g, b float32) *documentaipb.Document_Page_Token {
	return &documentaipb.Document_Page_Token{
		Layout: &documentaipb.Document_Page_Layout{
			BoundingPoly: &documentaipb.BoundingPoly{Vertices: []*documentaipb.Vertex{
				{X: 10, Y: top}, {X: 50, Y: top}, {X: 50, Y: top + 20}, {X: 10, Y: top + 20},
			}},
		},
		StyleInfo: &documentaipb.Document_Page_Token_StyleInfo{
			Bold:      bold,
			FontType:  fontType,
			TextColor: &color.Color{Red: r, Green: g, Blue: b},
		},
	}
}

func TestDocumentAIInfer(t *testing.T) {
	client := &fakeDocumentClient{document: &documentaipb.Document{
		Pages: []*documentaipb.Document_Page{{
			Dimension: &documentaipb.Document_Page_Dimension{Width: 600, Height: 800},
			Tokens: []*documentaipb.Document_Page_Token{
				token(10, true, "Serif", 1, 0, 0),
				token(100, true, "Serif", 0.6, 0, 0),
				token(300, false, "", 0, 0, 0),
				token(500, false, "", 0.2, 0.2, 0.2),
				token(700, true, "", 0.4, 0.4, 0.4),
			},
		}},
	}}
	spec := documentai.Spec{ProjectID: "p", Location: "us", ProcessorID: "abc"}

	styles, err := NewDocumentAI(client, spec).Infer(context.Background(), image.NewRGBA(image.Rect(0, 0, 600, 800)))
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}

	want := menu.StyleMap{
		menu.LabelTitle:    {FontName: "Serif-Bold", Color: menu.RGB{R: 204}},
		menu.LabelItemList: {FontName: "Arial", Color: menu.RGB{R: 51, G: 51, B: 51}},
	}
	if !reflect.DeepEqual(styles, want) {
		t.Errorf("styles = %+v, want %+v", styles, want)
	}
	if client.request.GetName() != "projects/p/locations/us/processors/abc" {
		t.Errorf("processor = %q", client.request.GetName())
	}
	if !client.request.GetProcessOptions().GetOcrConfig().GetPremiumFeatures().GetComputeStyleInfo() {
		t.Error("style info was not requested")
	}
}

func TestDocumentAIInferWithoutText(t *testing.T) {
	client := &fakeDocumentClient{document: &documentaipb.Document{Pages: []*documentaipb.Document_Page{{}}}}
	if _, err := NewDocumentAI(client, documentai.Spec{}).Infer(context.Background(), image.NewRGBA(image.Rect(0, 0, 4, 4))); err == nil {
		t.Error("Infer succeeded on an empty document")
	}
}
