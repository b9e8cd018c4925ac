//go:build gocv

package main

import "github.com/cardapio-project/cardapio/grpc/impl/inpaint"

func openCVFiller() (inpaint.Filler, error) {
	return inpaint.NewOpenCV(inpaint.Radius), nil
}
