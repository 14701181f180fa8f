package operations

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"path/filepath"
	"strings"

	"photo-gallery/internal/domain"

	"github.com/disintegration/imaging"

	// webp uploads are accepted but webp is decode-only; processed output is
	// always JPEG.
	_ "golang.org/x/image/webp"
)

func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Composite alpha-blends the overlay onto the center of the base photo.
// The overlay carries its own opacity in its alpha channel.
func Composite(base, overlay image.Image) *image.NRGBA {
	return imaging.OverlayCenter(base, overlay, 1.0)
}

func EncodeJPEG(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: domain.DefaultJPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func ContentTypeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".bmp":
		return "image/bmp"
	case ".tiff", ".tif":
		return "image/tiff"
	default:
		return "image/jpeg"
	}
}
