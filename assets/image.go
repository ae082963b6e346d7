package assets

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const (
	defaultMaxImageWidth  = 1600
	defaultMaxImageHeight = 1600
)

// ImageNormalizer bounds static image dimensions, preserving aspect ratio
// and format. Images already within bounds, and formats it cannot decode
// or re-encode, pass through unchanged.
type ImageNormalizer struct {
	maxWidth  int
	maxHeight int
}

var _ Normalizer = (*ImageNormalizer)(nil)

// NewImageNormalizer creates a normalizer with the given dimension bounds.
// Non-positive bounds fall back to 1600x1600.
func NewImageNormalizer(maxWidth, maxHeight int) *ImageNormalizer {
	if maxWidth <= 0 {
		maxWidth = defaultMaxImageWidth
	}
	if maxHeight <= 0 {
		maxHeight = defaultMaxImageHeight
	}
	return &ImageNormalizer{
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
	}
}

// Normalize scales oversized images down to fit the bounds using
// Catmull-Rom resampling.
func (n *ImageNormalizer) Normalize(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data, nil
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= n.maxWidth && height <= n.maxHeight {
		return data, nil
	}

	ratio := float64(width) / float64(height)
	if float64(n.maxWidth)/float64(n.maxHeight) > ratio {
		width = int(float64(n.maxHeight) * ratio)
		height = n.maxHeight
	} else {
		height = int(float64(n.maxWidth) / ratio)
		width = n.maxWidth
	}
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 90})
	case "png":
		err = png.Encode(&buf, dst)
	default:
		return data, nil
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
