package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
)

// Variant sizes (longest edge, px) produced for every uploaded image.
var VariantSizes = []struct {
	Name string
	Size int
}{
	{"large", 1200},
	{"medium", 600},
	{"thumbnail", 300},
}

type ImageInfo struct {
	Format      string
	ContentType string
	Width       int
	Height      int
}

type ImageProcessor struct {
	MaxSize int64 // bytes
}

func NewImageProcessor(maxSize int64) *ImageProcessor {
	if maxSize <= 0 {
		maxSize = 5 * 1024 * 1024
	}
	return &ImageProcessor{MaxSize: maxSize}
}

// ValidateImage accepts jpeg and png up to MaxSize.
func (p *ImageProcessor) ValidateImage(data []byte) (*ImageInfo, error) {
	if int64(len(data)) > p.MaxSize {
		return nil, fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("not an image: %w", err)
	}

	switch format {
	case "jpeg", "png":
		return &ImageInfo{
			Format:      format,
			ContentType: "image/" + format,
			Width:       cfg.Width,
			Height:      cfg.Height,
		}, nil
	default:
		return nil, fmt.Errorf("image format %s not allowed (only jpeg/png)", format)
	}
}

// ProcessImage renders each VariantSizes entry as a jpeg, never upscaling.
func (p *ImageProcessor) ProcessImage(data []byte) (map[string][]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	bounds := img.Bounds()
	variants := make(map[string][]byte, len(VariantSizes))
	for _, v := range VariantSizes {
		resized := img
		if bounds.Dx() > v.Size || bounds.Dy() > v.Size {
			resized = imaging.Fit(img, v.Size, v.Size, imaging.Lanczos)
		}

		b := new(bytes.Buffer)
		if err := jpeg.Encode(b, resized, &jpeg.Options{Quality: 90}); err != nil {
			return nil, fmt.Errorf("cannot encode %s: %w", v.Name, err)
		}
		variants[v.Name] = b.Bytes()
	}
	return variants, nil
}
