package session

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
)

// ErrNoScreenshot is returned when a step has no screenshot file to edit.
var ErrNoScreenshot = errors.New("step has no screenshot")

// CropScreenshot replaces the screenshot of step n with the part inside r.
// r is clipped to the image; an empty intersection is an error.
func (st *Store) CropScreenshot(name string, n int, r image.Rectangle) error {
	path, img, err := st.screenshot(name, n)
	if err != nil {
		return err
	}
	r = r.Canon().Intersect(img.Bounds())
	if r.Empty() {
		return fmt.Errorf("crop rectangle lies outside the %dx%d screenshot", img.Bounds().Dx(), img.Bounds().Dy())
	}

	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), img, r.Min, draw.Src)
	return writePNG(path, out)
}

// AnnotateScreenshot composites overlay onto the screenshot of step n,
// anchored at the top-left corner. Transparent overlay pixels leave the
// screenshot untouched.
func (st *Store) AnnotateScreenshot(name string, n int, overlay image.Image) error {
	path, img, err := st.screenshot(name, n)
	if err != nil {
		return err
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	draw.Draw(out, out.Bounds(), overlay, overlay.Bounds().Min, draw.Over)
	return writePNG(path, out)
}

// screenshot resolves and decodes the screenshot of step n.
func (st *Store) screenshot(name string, n int) (string, image.Image, error) {
	s, err := st.Load(name)
	if err != nil {
		return "", nil, err
	}
	idx := indexOf(s.Steps, n)
	if idx < 0 {
		return "", nil, fmt.Errorf("%w: %s #%d", ErrStepNotFound, name, n)
	}
	shot := s.Steps[idx].Screenshot
	if shot == "" {
		return "", nil, fmt.Errorf("%w: %s #%d", ErrNoScreenshot, name, n)
	}

	path := filepath.Join(st.Dir(name), filepath.FromSlash(shot))
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("%w: %s", ErrNoScreenshot, shot)
		}
		return "", nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return "", nil, fmt.Errorf("decoding %s: %w", shot, err)
	}
	return path, img, nil
}

func writePNG(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return writeAtomic(path, buf.Bytes())
}
