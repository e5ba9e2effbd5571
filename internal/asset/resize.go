package asset

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// downscale shrinks jpeg and png uploads wider than maxWidth, keeping the
// aspect ratio and the original format. Other formats, narrow images and
// undecodable content are returned unchanged.
func downscale(up *Upload, maxWidth int) (*Upload, error) {
	if maxWidth <= 0 || (up.MIME != "image/jpeg" && up.MIME != "image/png") {
		return up, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(up.Data))
	if err != nil || cfg.Width <= maxWidth {
		return up, nil //nolint:nilerr // sniffed as image but not decodable: keep original bytes
	}

	src, _, err := image.Decode(bytes.NewReader(up.Data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := src.Bounds()
	h := b.Dy() * maxWidth / b.Dx()
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	var buf bytes.Buffer

	switch up.MIME {
	case "image/png":
		err = png.Encode(&buf, dst)
	default:
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}

	if err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	out := *up
	out.Data = buf.Bytes()

	return &out, nil
}
