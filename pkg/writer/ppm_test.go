package writer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{G: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	img.SetRGBA(1, 1, color.RGBA{R: 128, G: 128, B: 128, A: 255})
	return img
}

func TestWritePPM(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePPM(&buf, testImage()); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	expected := strings.Join([]string{
		"P3",
		"2 2",
		"255",
		"255 0 0",
		"0 255 0",
		"0 0 255",
		"128 128 128",
		"",
	}, "\n")
	if buf.String() != expected {
		t.Errorf("Unexpected PPM output:\n%s", buf.String())
	}
}

func TestWritePNG_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testImage()); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Output is not valid PNG: %v", err)
	}
	if decoded.Bounds() != image.Rect(0, 0, 2, 2) {
		t.Errorf("Decoded bounds %v, want 2x2", decoded.Bounds())
	}

	r, g, b, _ := decoded.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("Pixel (0,0) decoded as (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
}

func TestWrite_FormatDispatch(t *testing.T) {
	var buf bytes.Buffer

	if err := Write(&buf, testImage(), "ppm"); err != nil {
		t.Errorf("ppm dispatch failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "P3\n") {
		t.Error("Expected P3 header from ppm format")
	}

	buf.Reset()
	if err := Write(&buf, testImage(), "png"); err != nil {
		t.Errorf("png dispatch failed: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("Expected PNG signature from png format")
	}

	if err := Write(&buf, testImage(), "bmp"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}
