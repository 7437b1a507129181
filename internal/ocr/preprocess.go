package ocr

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	// raster invoice photos arrive as PNG or JPEG
	_ "image/jpeg"
	_ "image/png"
)

// PreprocessImage decodes src, converts it to grayscale, applies a fixed
// multiplicative contrast enhancement and writes the result to dst as PNG.
// The enhanced image is what gets handed to the OCR binary: character edges
// stand out better against scanner background noise.
func PreprocessImage(src, dst string, factor float64) error {
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	gray := toGray(img)
	enhanced := enhanceContrast(gray, factor)

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create preprocessed image: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, enhanced); err != nil {
		return fmt.Errorf("encode preprocessed image: %w", err)
	}
	return nil
}

func toGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}

// enhanceContrast scales every pixel away from the image's mean luminance:
// out = mean + factor*(in - mean), clamped to [0, 255]. factor 1.0 is a
// no-op, 2.0 doubles the spread.
func enhanceContrast(gray *image.Gray, factor float64) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || factor == 1.0 {
		return gray
	}

	var sum uint64
	for _, px := range gray.Pix {
		sum += uint64(px)
	}
	mean := float64(sum) / float64(len(gray.Pix))

	out := image.NewGray(b)
	for i, px := range gray.Pix {
		v := mean + factor*(float64(px)-mean)
		switch {
		case v < 0:
			out.Pix[i] = 0
		case v > 255:
			out.Pix[i] = 255
		default:
			out.Pix[i] = uint8(v + 0.5)
		}
	}
	return out
}
