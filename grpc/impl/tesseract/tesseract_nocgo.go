//go:build !cgo

package tesseract

import "errors"

func newGosseractEngine() (engine, error) {
	return nil, errors.New("tesseract needs a cgo build")
}
