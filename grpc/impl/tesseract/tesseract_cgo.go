//go:build cgo

package tesseract

import (
	"github.com/otiai10/gosseract/v2"

	"github.com/cardapio-project/cardapio/pkg/utils"
)

type gosseractEngine struct {
	*gosseract.Client
}

func newGosseractEngine() (engine, error) {
	return gosseractEngine{Client: gosseract.NewClient()}, nil
}

func (e gosseractEngine) Words() ([]word, error) {
	boxes, err := e.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, err
	}
	return utils.Map(boxes, func(box gosseract.BoundingBox) word {
		return word{text: box.Word, box: box.Box, confidence: box.Confidence}
	}), nil
}
