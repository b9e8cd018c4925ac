// Package menu holds the text-block data model and the pure steps of the
// pipeline: the confidence filter, the region color sampler and the
// positional fusion of OCR detections with inferred styles.
package menu

import (
	"fmt"
	"image"
)

// Records are kept only when their confidence is strictly greater than the threshold of their mode.
const (
	TemplateConfidenceThreshold = 60
	AnalysisConfidenceThreshold = 50
)

// Detections starting above this fraction of the image height belong to the title band.
const TitleBandFraction = 0.30

// RGB is an 8-bit color without alpha.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

func (c RGB) String() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Triple is the [r, g, b] form used by the JSON documents.
func (c RGB) Triple() [3]int {
	return [3]int{int(c.R), int(c.G), int(c.B)}
}

var Black = RGB{}

// Box is a pixel rectangle with its origin at the top-left corner of the image.
type Box struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Quad is the [x, y, w, h] form used by the JSON documents.
func (b Box) Quad() [4]int {
	return [4]int{b.X, b.Y, b.Width, b.Height}
}

// BoxFromRect converts a rectangle relative to bounds into a box relative to the image origin.
func BoxFromRect(r image.Rectangle, bounds image.Rectangle) Box {
	r = r.Canon()
	return Box{
		X:      r.Min.X - bounds.Min.X,
		Y:      r.Min.Y - bounds.Min.Y,
		Width:  r.Dx(),
		Height: r.Dy(),
	}
}

// Detection is one raw OCR fragment. Order carries no meaning.
type Detection struct {
	Text       string
	Box        Box
	Confidence int
}

// TextBlock is a detection accepted into the data model. Blocks are never
// modified after creation; every pipeline step builds new ones.
type TextBlock struct {
	ID         string
	Text       string
	Box        Box
	Confidence int
	// Box height stands in for the font size.
	ApproxFontSize int
	Color          RGB
	// Set in analysis mode only.
	FontNameSuggestion string
}

type Label string

const (
	LabelTitle    Label = "title"
	LabelItemList Label = "item-list"
)

// StyleRegion is a suggested font and color for one semantic zone of a menu.
type StyleRegion struct {
	FontName string
	Color    RGB
}

type StyleMap map[Label]StyleRegion

const (
	DefaultTitleFont    = "Georgia-Bold"
	DefaultItemListFont = "Arial"
)

var (
	DefaultTitleColor    = RGB{R: 139, G: 0, B: 0}
	DefaultItemListColor = RGB{R: 64, G: 64, B: 64}
)

// DefaultStyles is used whenever style inference is unavailable.
func DefaultStyles() StyleMap {
	return StyleMap{
		LabelTitle:    {FontName: DefaultTitleFont, Color: DefaultTitleColor},
		LabelItemList: {FontName: DefaultItemListFont, Color: DefaultItemListColor},
	}
}
