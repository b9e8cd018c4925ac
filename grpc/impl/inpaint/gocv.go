//go:build gocv

package inpaint

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// OpenCV builds its own Telea implementation; it needs the opencv4 shared
// libraries, so it is only compiled with -tags gocv.
type opencv struct {
	radius float32
}

func NewOpenCV(radius int) Filler {
	return &opencv{radius: float32(radius)}
}

func (o *opencv) Fill(ctx context.Context, canvas *image.RGBA, mask *image.Gray) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	src, err := gocv.ImageToMatRGB(canvas)
	if err != nil {
		return fmt.Errorf("failed to convert canvas: %w", err)
	}
	defer src.Close()

	holes, err := gocv.ImageGrayToMatGray(mask)
	if err != nil {
		return fmt.Errorf("failed to convert mask: %w", err)
	}
	defer holes.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Inpaint(src, holes, &dst, o.radius, gocv.Telea)

	filled, err := dst.ToImage()
	if err != nil {
		return fmt.Errorf("failed to convert inpainted image: %w", err)
	}

	bounds := canvas.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if mask.GrayAt(x, y).Y != 0 {
				canvas.Set(x, y, filled.At(x-bounds.Min.X, y-bounds.Min.Y))
			}
		}
	}
	return nil
}
