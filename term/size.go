package term

import (
	"errors"
	"os"

	"golang.org/x/term"
)

type termSize struct {
	Height int
	Width  int
}

var (
	ErrTermSizeParseFailed = errors.New("term size parse failed")
)

func Size() (*termSize, error) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return nil, ErrTermSizeParseFailed
	}
	return &termSize{
		Height: height,
		Width:  width,
	}, nil
}
