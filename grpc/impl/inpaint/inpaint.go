// Package inpaint removes text from menu photographs by filling each detected
// box with content reconstructed from its surroundings.
package inpaint

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"

	"github.com/cardapio-project/cardapio/grpc/impl/menu"
)

// Radius is the neighborhood, in pixels, a filled pixel is reconstructed from.
const Radius = 5

// MaskSentinel marks the pixels a Filler must reconstruct.
const MaskSentinel = 255

// Filler reconstructs, in place, every canvas pixel whose mask value is non-zero.
// The mask always has the canvas bounds.
type Filler interface {
	Fill(ctx context.Context, canvas *image.RGBA, mask *image.Gray) error
}

// RemoveText returns a copy of img with every box filled, one box at a time
// on the same evolving copy. Where boxes overlap, the fill applied last wins.
// img itself is never modified.
func RemoveText(ctx context.Context, filler Filler, img image.Image, boxes []menu.Box) (*image.RGBA, error) {
	canvas := clone.AsRGBA(img)
	bounds := canvas.Bounds()

	// One mask is reused for every box and cleared after each fill.
	mask := image.NewGray(bounds)
	for i, box := range boxes {
		rect := box.Rect().Add(bounds.Min).Intersect(bounds)
		if rect.Empty() {
			continue
		}

		draw.Draw(mask, rect, &image.Uniform{C: color.Gray{Y: MaskSentinel}}, image.Point{}, draw.Src)
		err := filler.Fill(ctx, canvas, mask)
		draw.Draw(mask, rect, &image.Uniform{C: color.Gray{}}, image.Point{}, draw.Src)
		if err != nil {
			return nil, fmt.Errorf("failed to fill box %d %v: %w", i, rect, err)
		}
	}

	return canvas, nil
}

// maskBounds is the smallest rectangle holding every non-zero mask pixel.
func maskBounds(mask *image.Gray) image.Rectangle {
	var hole image.Rectangle
	bounds := mask.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := mask.Pix[mask.PixOffset(bounds.Min.X, y):mask.PixOffset(bounds.Max.X-1, y)+1]
		for i, value := range row {
			if value != 0 {
				hole = hole.Union(image.Rect(bounds.Min.X+i, y, bounds.Min.X+i+1, y+1))
			}
		}
	}
	return hole
}
