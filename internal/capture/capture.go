// Package capture writes framebuffer screenshots as PNG files.
package capture

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// LatestName is the file that always holds the most recent capture.
const LatestName = "latest.png"

const timestampLayout = "2006-01-02_15-04-05"

// Capturer saves screenshots into a directory.
type Capturer struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// New creates a capturer writing <prefix>_<timestamp>.png files to outputDir.
func New(outputDir, prefix string) *Capturer {
	return &Capturer{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Dir returns the output directory.
func (c *Capturer) Dir() string { return c.outputDir }

// FlipRows converts bottom-up RGBA rows, as returned by glReadPixels, into
// a top-down image.
func FlipRows(pixels []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid size %dx%d", width, height)
	}
	if len(pixels) != width*height*4 {
		return nil, fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img, nil
}

// CaptureFromPixels saves bottom-up RGBA pixel data and returns the path of
// the timestamped file. The same image is also written to LatestName.
func (c *Capturer) CaptureFromPixels(pixels []byte, width, height int) (string, error) {
	img, err := FlipRows(pixels, width, height)
	if err != nil {
		return "", err
	}
	return c.CaptureFromImage(img)
}

// CaptureFromImage saves an existing image.
func (c *Capturer) CaptureFromImage(img image.Image) (string, error) {
	if c.outputDir != "" {
		if err := os.MkdirAll(c.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := c.GenerateFilename()
	if err := writePNG(filename, img); err != nil {
		return "", err
	}
	// latest.png is a convenience copy for automation scripts.
	if err := writePNG(filepath.Join(c.outputDir, LatestName), img); err != nil {
		return filename, err
	}
	return filename, nil
}

// GenerateFilename returns the path the next capture would be written to.
func (c *Capturer) GenerateFilename() string {
	filename := fmt.Sprintf("%s_%s.png", c.prefix, c.now().Format(timestampLayout))
	if c.outputDir != "" {
		filename = filepath.Join(c.outputDir, filename)
	}
	return filename
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return file.Close()
}
