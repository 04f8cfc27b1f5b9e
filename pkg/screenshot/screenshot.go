package screenshot

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbinani/screenshot"
)

const defaultJPEGQuality = 85

// Capturer grabs display contents and encodes them as data URIs suitable for
// an image_url content part.
type Capturer struct {
	quality int
}

func NewCapturer() *Capturer {
	return &Capturer{quality: defaultJPEGQuality}
}

// CaptureToDataURI captures the given display (0 is primary) to a JPEG
// data URI. An out-of-range display falls back to the primary one.
func (c *Capturer) CaptureToDataURI(display int) (string, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return "", fmt.Errorf("no active displays")
	}
	if display < 0 || display >= n {
		display = 0
	}

	img, err := screenshot.CaptureRect(screenshot.GetDisplayBounds(display))
	if err != nil {
		return "", fmt.Errorf("capturing display %d: %w", display, err)
	}

	return c.encode(img)
}

func (c *Capturer) encode(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: c.quality}); err != nil {
		return "", fmt.Errorf("encoding jpeg: %w", err)
	}
	return ToDataURI("image/jpeg", buf.Bytes()), nil
}

// ToDataURI wraps raw image bytes in a base64 data URI.
func ToDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// FileToDataURI reads an image file and converts it to a data URI, sniffing
// the MIME type from the extension. Unknown extensions are treated as JPEG.
func FileToDataURI(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image file: %w", err)
	}
	return ToDataURI(mimeTypeByExtension(path), data), nil
}

func mimeTypeByExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
