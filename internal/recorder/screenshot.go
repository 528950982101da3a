package recorder

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/fakeyudi/stepsrec/internal/input"
	"github.com/fakeyudi/stepsrec/internal/session"
)

// ScreenshotName is the file name of the screenshot for step n.
func ScreenshotName(n int) string {
	return fmt.Sprintf("screenshot_%04d.png", n)
}

// Correlator captures the screenshot for a step and stores it under the
// session's screenshots directory.
type Correlator struct {
	provider input.Provider
	dir      string // session directory
	log      zerolog.Logger
}

// NewCorrelator writes screenshots below sessionDir.
func NewCorrelator(p input.Provider, sessionDir string, log zerolog.Logger) *Correlator {
	return &Correlator{provider: p, dir: sessionDir, log: log}
}

// Capture grabs the screen for step n and returns the path relative to the
// session directory. Any failure is logged and yields "".
func (c *Correlator) Capture(ctx context.Context, n int) string {
	rel, err := c.capture(ctx, n)
	if err != nil {
		c.log.Warn().Err(err).Int("step", n).Msg("screenshot failed")
		return ""
	}
	return rel
}

func (c *Correlator) capture(ctx context.Context, n int) (string, error) {
	img, err := c.provider.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	if img == nil {
		return "", input.ErrNoImage
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode png: %w", err)
	}

	name := ScreenshotName(n)
	full := filepath.Join(c.dir, session.ScreenshotsDir, name)
	if err := os.WriteFile(full, buf.Bytes(), 0o644); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	return path.Join(session.ScreenshotsDir, name), nil
}
