package writer

import (
	"bufio"
	"fmt"
	"image"
	"image/png"
	"io"
)

// WritePPM encodes the image as a plain-text P3 pixel map. The renderer
// already produced gamma-corrected 8-bit channels, so this only
// formats them.
func WritePPM(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", bounds.Dx(), bounds.Dy()); err != nil {
		return err
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// RGBA returns 16-bit channels
			if _, err := fmt.Fprintf(bw, "%d %d %d\n", r>>8, g>>8, b>>8); err != nil {
				return err
			}
		}
	}

	return bw.Flush()
}

// WritePNG encodes the image as PNG
func WritePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// Write encodes the image in the named format ("png" or "ppm")
func Write(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		return WritePNG(w, img)
	case "ppm":
		return WritePPM(w, img)
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}
