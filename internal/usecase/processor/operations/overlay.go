package operations

import (
	"image"

	"photo-gallery/internal/domain"

	"github.com/disintegration/imaging"
)

// FitOverlay scales an uploaded overlay image to the standard fraction of the
// target photo width, preserving aspect ratio. The overlay is never enlarged
// past its source size.
func FitOverlay(overlay image.Image, targetWidth int) image.Image {
	maxWidth := int(float64(targetWidth) * domain.ImageWatermarkScale)
	if maxWidth < 1 {
		maxWidth = 1
	}
	if overlay.Bounds().Dx() <= maxWidth {
		return overlay
	}
	return imaging.Resize(overlay, maxWidth, 0, imaging.Lanczos)
}
