//go:build !gocv

package main

import (
	"errors"

	"github.com/cardapio-project/cardapio/grpc/impl/inpaint"
)

func openCVFiller() (inpaint.Filler, error) {
	return nil, errors.New("INPAINT_BACKEND=opencv requires a build with -tags gocv")
}
