package session_test

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakeyudi/stepsrec/internal/session"
)

// seedScreenshotSession stores a session whose step 2 has a 10x8 blue screenshot.
func seedScreenshotSession(t *testing.T) (*session.Store, string) {
	t.Helper()
	store := session.NewStore(t.TempDir())
	dir, err := store.Create("shots")
	require.NoError(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 10, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	f, err := os.Create(filepath.Join(dir, "screenshots", "screenshot_0002.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	now := time.Unix(1_700_000_000, 0).UTC()
	steps := []session.Step{
		{Number: 1, Timestamp: now, Action: session.ActionSystem, Details: map[string]any{"event": "recorder_started"}},
		{Number: 2, Timestamp: now, Action: session.ActionClick, Position: &session.Position{X: 1, Y: 1},
			Screenshot: "screenshots/screenshot_0002.png", Details: map[string]any{}},
	}
	require.NoError(t, store.Save(session.New("id", "shots", "", steps)))
	return store, filepath.Join(dir, "screenshots", "screenshot_0002.png")
}

func decode(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	return img
}

func TestCropScreenshot(t *testing.T) {
	store, path := seedScreenshotSession(t)

	require.NoError(t, store.CropScreenshot("shots", 2, image.Rect(2, 2, 6, 5)))
	b := decode(t, path).Bounds()
	assert.Equal(t, 4, b.Dx())
	assert.Equal(t, 3, b.Dy())

	// Rectangles are clipped to the image.
	require.NoError(t, store.CropScreenshot("shots", 2, image.Rect(2, 1, 100, 100)))
	b = decode(t, path).Bounds()
	assert.Equal(t, 2, b.Dx())
	assert.Equal(t, 2, b.Dy())

	assert.Error(t, store.CropScreenshot("shots", 2, image.Rect(50, 50, 60, 60)))
}

func TestAnnotateScreenshot(t *testing.T) {
	store, path := seedScreenshotSession(t)

	overlay := image.NewRGBA(image.Rect(0, 0, 10, 8))
	overlay.Set(3, 4, color.RGBA{R: 255, A: 255})
	require.NoError(t, store.AnnotateScreenshot("shots", 2, overlay))

	img := decode(t, path)
	r, _, b, _ := img.At(3, 4).RGBA()
	assert.EqualValues(t, 0xffff, r)
	assert.EqualValues(t, 0, b)
	r, _, b, _ = img.At(0, 0).RGBA()
	assert.EqualValues(t, 0, r)
	assert.EqualValues(t, 0xffff, b)
}

func TestScreenshotEditErrors(t *testing.T) {
	store, _ := seedScreenshotSession(t)
	rect := image.Rect(0, 0, 2, 2)

	assert.ErrorIs(t, store.CropScreenshot("shots", 1, rect), session.ErrNoScreenshot)
	assert.ErrorIs(t, store.CropScreenshot("shots", 9, rect), session.ErrStepNotFound)
	assert.ErrorIs(t, store.CropScreenshot("missing", 2, rect), session.ErrNotFound)

	require.NoError(t, store.DeleteStep("shots", 2))
	assert.ErrorIs(t, store.AnnotateScreenshot("shots", 2, image.NewRGBA(rect)), session.ErrStepNotFound)
}
