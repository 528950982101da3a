package input

import (
	"context"
	"image"
	"image/color"
	"sync/atomic"
)

// SyntheticGrabber renders a generated frame instead of reading the screen.
// Each frame uses a different base hue so consecutive captures differ.
type SyntheticGrabber struct {
	Width, Height int
	frames        atomic.Uint32
}

// Grab renders the next frame.
func (g *SyntheticGrabber) Grab(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	width, height := g.Width, g.Height
	if width <= 0 || height <= 0 {
		width, height = 640, 400
	}
	n := g.frames.Add(1)
	hue := uint8(40 + (n*37)%200)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: hue, G: uint8(x % 255), B: uint8(y % 255), A: 255})
		}
	}
	return img, nil
}
