// Package render draws text placements onto a background image.
package render

import (
	"image"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
)

// Placement is one piece of text to draw, with its top-left corner at (X, Y).
type Placement struct {
	Text     string
	FontName string
	FontSize float64
	Color    menu.RGB
	X        int
	Y        int
}

// Fonts resolves family names to parsed fonts, substituting a default for
// missing families.
type Fonts interface {
	Font(name string) *truetype.Font
}

type Renderer struct {
	fonts Fonts
}

func New(fonts Fonts) *Renderer {
	return &Renderer{fonts: fonts}
}

// Render draws placements in order onto a copy of background, so later
// placements are drawn over earlier ones. background is not modified.
func (r *Renderer) Render(background image.Image, placements []Placement) image.Image {
	dc := gg.NewContextForImage(background)
	origin := background.Bounds().Min

	faces := map[faceKey]font.Face{}
	defer func() {
		for _, face := range faces {
			face.Close()
		}
	}()

	for _, placement := range placements {
		if placement.Text == "" || placement.FontSize <= 0 {
			continue
		}

		key := faceKey{name: placement.FontName, size: placement.FontSize}
		face, ok := faces[key]
		if !ok {
			face = truetype.NewFace(r.fonts.Font(placement.FontName), &truetype.Options{Size: placement.FontSize})
			faces[key] = face
		}

		dc.SetFontFace(face)
		dc.SetRGB255(int(placement.Color.R), int(placement.Color.G), int(placement.Color.B))
		dc.DrawStringAnchored(placement.Text, float64(origin.X+placement.X), float64(origin.Y+placement.Y), 0, 1)
	}

	return dc.Image()
}

type faceKey struct {
	name string
	size float64
}
