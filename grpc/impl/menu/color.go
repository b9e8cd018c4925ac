package menu

import (
	"image"
	"math"
)

// SampleColor estimates the text color inside box from the 1 pixel strip along
// the box's top edge, averaging each channel and rounding to the nearest value.
//
// It assumes text on a roughly uniform local background and is not a
// segmentation. Boxes touching the top or left edge (x == 0 or y == 0) are
// not sampled and yield black, as does a strip lying entirely outside the image.
func SampleColor(img image.Image, box Box) RGB {
	if box.X == 0 || box.Y == 0 {
		return Black
	}

	bounds := img.Bounds()
	strip := image.Rect(box.X, box.Y, box.X+box.Width, box.Y+1).
		Add(bounds.Min).
		Intersect(bounds)
	if strip.Empty() {
		return Black
	}

	var sumR, sumG, sumB float64
	for x := strip.Min.X; x < strip.Max.X; x++ {
		r, g, b, _ := img.At(x, strip.Min.Y).RGBA()
		sumR += float64(r >> 8)
		sumG += float64(g >> 8)
		sumB += float64(b >> 8)
	}
	count := float64(strip.Dx())

	return RGB{
		R: uint8(math.Round(sumR / count)),
		G: uint8(math.Round(sumG / count)),
		B: uint8(math.Round(sumB / count)),
	}
}
