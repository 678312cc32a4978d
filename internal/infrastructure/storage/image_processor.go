package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	"github.com/disintegration/imaging"
)

// Bounds applied when a resize request does not specify its own.
const (
	DefaultMaxWidth  = 1200
	DefaultMaxHeight = 1200
)

type ImageProcessor struct {
	MaxSize int64 // bytes
}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{MaxSize: 5 * 1024 * 1024} // 5MB
}

func (p *ImageProcessor) ValidateImage(data []byte) error {
	if int64(len(data)) > p.MaxSize {
		return fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("not an image: %w", err)
	}
	switch format {
	case "jpeg", "png":
		return nil
	default:
		return fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// Resize scales the image down to fit within maxWidth x maxHeight,
// preserving aspect ratio. Images already inside the bounds pass through
// at their original dimensions; nothing is ever upscaled. The output is
// re-encoded in the requested content type ("image/png" keeps PNG,
// anything else becomes JPEG quality 90).
func (p *ImageProcessor) Resize(data []byte, contentType string, maxWidth, maxHeight int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if maxHeight <= 0 {
		maxHeight = DefaultMaxHeight
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	b := new(bytes.Buffer)
	if contentType == "image/png" {
		if err := png.Encode(b, resized); err != nil {
			return nil, fmt.Errorf("cannot encode png: %w", err)
		}
	} else {
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("cannot encode jpeg: %w", err)
		}
	}
	return b.Bytes(), nil
}

// AvatarVariants produces the sizes the profile pages serve.
func (p *ImageProcessor) AvatarVariants(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	sizes := map[string]int{"large": 600, "thumbnail": 150}
	variants := map[string][]byte{}
	for name, size := range sizes {
		resized := imaging.Fit(img, size, size, imaging.Lanczos)
		b := new(bytes.Buffer)
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", name, err)
		}
		variants[name] = b.Bytes()
	}
	return variants, nil
}
