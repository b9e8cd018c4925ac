package menu

import (
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func filledImage(width, height int, fill color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)
	return img
}

func TestSampleColorEdgeBoxesAreBlack(t *testing.T) {
	img := filledImage(100, 100, color.RGBA{R: 200, G: 150, B: 100, A: 255})

	tests := []struct {
		name string
		box  Box
	}{
		{name: "left edge", box: Box{X: 0, Y: 10, Width: 20, Height: 10}},
		{name: "top edge", box: Box{X: 10, Y: 0, Width: 20, Height: 10}},
		{name: "corner", box: Box{X: 0, Y: 0, Width: 5, Height: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SampleColor(img, tt.box); got != Black {
				t.Errorf("SampleColor(%+v) = %v, want black", tt.box, got)
			}
		})
	}
}

func TestSampleColorAveragesTopStrip(t *testing.T) {
	img := filledImage(50, 50, color.White)
	// Top row of the box: two pixels of (10,20,30) and two of (11,21,32).
	img.Set(10, 5, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(11, 5, color.RGBA{R: 10, G: 20, B: 30, A: 255})
	img.Set(12, 5, color.RGBA{R: 11, G: 21, B: 32, A: 255})
	img.Set(13, 5, color.RGBA{R: 11, G: 21, B: 32, A: 255})
	// Rows below the strip never count.
	img.Set(10, 6, color.Black)

	got := SampleColor(img, Box{X: 10, Y: 5, Width: 4, Height: 8})
	// 10.5 and 20.5 round half away from zero.
	want := RGB{R: 11, G: 21, B: 31}
	if got != want {
		t.Errorf("SampleColor = %v, want %v", got, want)
	}
}

func TestSampleColorClipsToImage(t *testing.T) {
	img := filledImage(20, 20, color.RGBA{R: 90, G: 80, B: 70, A: 255})

	if got := SampleColor(img, Box{X: 15, Y: 3, Width: 40, Height: 4}); got != (RGB{R: 90, G: 80, B: 70}) {
		t.Errorf("partially outside = %v", got)
	}
	if got := SampleColor(img, Box{X: 30, Y: 30, Width: 4, Height: 4}); got != Black {
		t.Errorf("entirely outside = %v, want black", got)
	}
}

func TestSampleColorHonorsBoundsOrigin(t *testing.T) {
	img := filledImage(40, 40, color.White)
	sub := img.SubImage(image.Rect(10, 10, 40, 40))
	// Box coordinates are relative to the sub image's top-left corner.
	img.Set(15, 15, color.RGBA{R: 1, G: 2, B: 3, A: 255})

	if got := SampleColor(sub, Box{X: 5, Y: 5, Width: 1, Height: 1}); got != (RGB{R: 1, G: 2, B: 3}) {
		t.Errorf("SampleColor on sub image = %v", got)
	}
}
