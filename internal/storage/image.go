package storage

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"github.com/BruksfildServices01/home-services-api/internal/httperr"
)

const (
	maxPhotoDimension = 800
	webpQuality       = 82
)

// ProcessPhoto normaliza qualquer upload (jpeg/png/webp) para webp
// com no máximo 800px no maior lado. Foto quadrada de 4MB vira ~40KB.
func ProcessPhoto(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_image")
	}

	img = shrink(img)

	var out bytes.Buffer
	if err := webp.Encode(&out, img, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func shrink(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxPhotoDimension && h <= maxPhotoDimension {
		return img
	}

	if w >= h {
		h = h * maxPhotoDimension / w
		w = maxPhotoDimension
	} else {
		w = w * maxPhotoDimension / h
		h = maxPhotoDimension
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
