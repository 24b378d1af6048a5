package images

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"storyweave/internal/culture"
)

// WritePlaceholder renders a vertical gradient PNG in the culture's
// palette. Used when the remote image service is down so videos still
// assemble.
func WritePlaceholder(path, cultureName string, width, height int) error {
	if width < 2 || height < 2 {
		width, height = 1280, 720
	}
	top, bottom := culture.GradientPalette(cultureName)
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		t := float64(y) / float64(height-1)
		c := lerpRGBA(top, bottom, t)
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create placeholder: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode placeholder: %w", err)
	}
	return nil
}

func lerpRGBA(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + t*(float64(b.R)-float64(a.R))),
		G: uint8(float64(a.G) + t*(float64(b.G)-float64(a.G))),
		B: uint8(float64(a.B) + t*(float64(b.B)-float64(a.B))),
		A: 255,
	}
}
