package tesseract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"reflect"
	"testing"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
	"github.com/cardapio-project/cardapio/grpc/impl/ocr"
	"github.com/cardapio-project/cardapio/pkg/common"
)

type fakeEngine struct {
	prefix string
	langs  []string
	image  []byte
	words  []word
	closed bool

	prefixErr error
	langErr   error
	imageErr  error
	wordsErr  error
}

func (f *fakeEngine) SetTessdataPrefix(prefix string) error {
	f.prefix = prefix
	return f.prefixErr
}

func (f *fakeEngine) SetLanguage(langs ...string) error {
	f.langs = langs
	return f.langErr
}

func (f *fakeEngine) SetImageFromBytes(data []byte) error {
	f.image = data
	return f.imageErr
}

func (f *fakeEngine) Words() ([]word, error) {
	return f.words, f.wordsErr
}

func (f *fakeEngine) Close() error {
	f.closed = true
	return nil
}

func detectorWith(config ocr.Config, session *fakeEngine) *detector {
	return newDetector(config, func() (engine, error) { return session, nil })
}

func TestToDetection(t *testing.T) {
	tests := []struct {
		name string
		word word
		want menu.Detection
	}{
		{
			name: "box becomes origin and size",
			word: word{text: "MENU", box: image.Rect(50, 10, 250, 50), confidence: 95},
			want: menu.Detection{Text: "MENU", Box: menu.Box{X: 50, Y: 10, Width: 200, Height: 40}, Confidence: 95},
		},
		{
			name: "confidence rounds up",
			word: word{text: "Pizza", box: image.Rect(0, 0, 10, 5), confidence: 60.9},
			want: menu.Detection{Text: "Pizza", Box: menu.Box{Width: 10, Height: 5}, Confidence: 61},
		},
		{
			name: "half rounds away from zero",
			word: word{text: "R$", box: image.Rect(1, 1, 2, 2), confidence: 49.5},
			want: menu.Detection{Text: "R$", Box: menu.Box{X: 1, Y: 1, Width: 1, Height: 1}, Confidence: 50},
		},
		{
			name: "confidence rounds down",
			word: word{text: "12", box: image.Rect(1, 1, 2, 2), confidence: 60.4},
			want: menu.Detection{Text: "12", Box: menu.Box{X: 1, Y: 1, Width: 1, Height: 1}, Confidence: 60},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toDetection(tt.word); got != tt.want {
				t.Errorf("toDetection = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLanguageDefault(t *testing.T) {
	tests := []struct {
		name string
		hint string
		want string
	}{
		{name: "empty hint", hint: "", want: DefaultLanguage},
		{name: "explicit hint", hint: "eng", want: "eng"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := &fakeEngine{}
			if _, err := detectorWith(ocr.Config{LanguageHint: tt.hint}, session).Detect(context.Background(), image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
				t.Fatalf("Detect: %v", err)
			}
			if !reflect.DeepEqual(session.langs, []string{tt.want}) {
				t.Errorf("languages = %v, want [%s]", session.langs, tt.want)
			}
		})
	}
	if DefaultLanguage != "por" {
		t.Errorf("DefaultLanguage = %q, want por", DefaultLanguage)
	}
}

func TestDetect(t *testing.T) {
	session := &fakeEngine{words: []word{
		{text: "MENU", box: image.Rect(50, 10, 250, 50), confidence: 95.2},
		{text: "blur", box: image.Rect(5, 500, 40, 520), confidence: 12},
	}}
	img := image.NewRGBA(image.Rect(0, 0, 600, 800))

	got, err := detectorWith(ocr.Config{EnginePath: "/usr/share/tessdata"}, session).Detect(context.Background(), img)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	want := []menu.Detection{
		{Text: "MENU", Box: menu.Box{X: 50, Y: 10, Width: 200, Height: 40}, Confidence: 95},
		{Text: "blur", Box: menu.Box{X: 5, Y: 500, Width: 35, Height: 20}, Confidence: 12},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("detections = %+v, want %+v", got, want)
	}
	if session.prefix != "/usr/share/tessdata" {
		t.Errorf("tessdata prefix = %q", session.prefix)
	}
	if !session.closed {
		t.Error("engine was not closed")
	}
	decoded, err := png.Decode(bytes.NewReader(session.image))
	if err != nil {
		t.Fatalf("engine got an undecodable image: %v", err)
	}
	if decoded.Bounds() != img.Bounds() {
		t.Errorf("engine image bounds = %v, want %v", decoded.Bounds(), img.Bounds())
	}
}

func TestDetectLeavesTessdataPrefixUnset(t *testing.T) {
	session := &fakeEngine{prefixErr: errors.New("must not be called")}
	if _, err := detectorWith(ocr.Config{}, session).Detect(context.Background(), image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if session.prefix != "" {
		t.Errorf("tessdata prefix = %q, want unset", session.prefix)
	}
}

func TestDetectEngineUnavailable(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		config  ocr.Config
		session *fakeEngine
	}{
		{name: "bad tessdata prefix", config: ocr.Config{EnginePath: "/missing"}, session: &fakeEngine{prefixErr: boom}},
		{name: "unknown language", session: &fakeEngine{langErr: boom}},
		{name: "image rejected", session: &fakeEngine{imageErr: boom}},
		{name: "recognition failed", session: &fakeEngine{wordsErr: boom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := detectorWith(tt.config, tt.session).Detect(context.Background(), image.NewGray(image.Rect(0, 0, 2, 2)))
			if !common.IsKind(err, common.KindEngineUnavailable) {
				t.Errorf("err = %v, want EngineUnavailable", err)
			}
			if !errors.Is(err, boom) {
				t.Errorf("err = %v does not wrap the engine error", err)
			}
			if !tt.session.closed {
				t.Error("engine was not closed")
			}
		})
	}
}

func TestDetectWithoutEngine(t *testing.T) {
	d := newDetector(ocr.Config{}, func() (engine, error) { return nil, errors.New("no cgo") })
	_, err := d.Detect(context.Background(), image.NewGray(image.Rect(0, 0, 2, 2)))
	if !common.IsKind(err, common.KindEngineUnavailable) {
		t.Errorf("err = %v, want EngineUnavailable", err)
	}
}

func TestDetectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := &fakeEngine{}
	if _, err := detectorWith(ocr.Config{}, session).Detect(ctx, image.NewGray(image.Rect(0, 0, 2, 2))); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if session.image != nil {
		t.Error("engine ran after cancellation")
	}
}
