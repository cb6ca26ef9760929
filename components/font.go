package components

import (
	"log"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

var fontSource *truetype.Font

func init() {
	var err error
	fontSource, err = truetype.Parse(goregular.TTF)
	if err != nil {
		log.Fatal(err)
	}
}

// FontFace returns the Go Regular face at size points.
func FontFace(size float64) font.Face {
	return truetype.NewFace(fontSource, &truetype.Options{Size: size})
}
