package impl

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/cardapio-project/cardapio/pkg/common"
)

// decodeImage reads an uploaded PNG, JPEG, GIF, BMP or TIFF. Phone photos
// are rotated according to their EXIF orientation so that OCR boxes match
// what the user sees.
func decodeImage(data []byte, field string) (image.Image, error) {
	if len(data) == 0 {
		return nil, common.InputErrorf("%s is required", field)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, common.InputError(field+" is not a supported image", err)
	}
	if img.Bounds().Empty() {
		return nil, common.InputErrorf("%s has no pixels", field)
	}
	return img, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
