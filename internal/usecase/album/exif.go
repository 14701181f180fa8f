package album

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// takenAt extracts the capture timestamp from EXIF data when present.
// Uploads without EXIF (screenshots, edited exports) simply get no TakenAt.
func takenAt(data []byte) *time.Time {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	t, err := x.DateTime()
	if err != nil {
		return nil
	}
	return &t
}
