package font

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/cardapio-project/cardapio/pkg/common"
)

type FontProvider interface {
	// Returns the font for the given family name, or the built-in default
	// when no file matches. Never fails.
	Font(name string) *truetype.Font
	// Returns the path of the font file for the given family name, or ""
	// when there is none.
	Resolve(name string) string
}

type fontProvider struct {
	basePath string
	fallback *truetype.Font

	mu    sync.Mutex
	fonts map[string]*truetype.Font
}

// Note: Font files are looked up as <basePath>/<lowercased family>.ttf, e.g.
// "Georgia-Bold" resolves to georgia-bold.ttf. Operators drop the files they
// license into the directory; nothing is bundled besides Go Regular.
// Ref: https://go.dev/blog/go-fonts
func New(basePath string) (FontProvider, error) {
	fallback, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse the default font: %w", err)
	}

	if basePath != "" {
		if info, err := os.Stat(basePath); err != nil || !info.IsDir() {
			log.Warn().Str("font_dir", basePath).Msg("Font directory is missing, only the default font is available")
		}
	}

	return &fontProvider{
		basePath: basePath,
		fallback: fallback,
		fonts:    map[string]*truetype.Font{},
	}, nil
}

func (fp *fontProvider) Font(name string) *truetype.Font {
	key := normalize(name)

	fp.mu.Lock()
	defer fp.mu.Unlock()

	if font, ok := fp.fonts[key]; ok {
		return font
	}

	font, err := fp.load(key)
	if err != nil {
		// Misses are cached too, so each family is reported once.
		log.Warn().Err(common.RenderResourceMissing(fmt.Sprintf("font %q", name), err)).
			Str("reason", string(common.KindRenderResourceMissing)).
			Msg("Falling back to the default font")
		font = fp.fallback
	}
	fp.fonts[key] = font
	return font
}

func (fp *fontProvider) Resolve(name string) string {
	path, ok := fp.path(normalize(name))
	if !ok {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func (fp *fontProvider) load(key string) (*truetype.Font, error) {
	path, ok := fp.path(key)
	if !ok {
		return nil, errors.New("not a font family name")
	}
	return parseFontFile(path)
}

func (fp *fontProvider) path(key string) (string, bool) {
	// Names come from spreadsheets and model answers; they never select a directory.
	if fp.basePath == "" || key == "" || key != filepath.Base(key) || strings.HasPrefix(key, ".") {
		return "", false
	}
	return filepath.Join(fp.basePath, key+".ttf"), true
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func parseFontFile(path string) (*truetype.Font, error) {
	fontBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(fontBytes)
}
