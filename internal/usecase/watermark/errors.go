package watermark

import "errors"

var (
	ErrMissingFields          = errors.New("file path and album id are required")
	ErrNotOriginalPath        = errors.New("file path must reference the original folder")
	ErrInvalidWatermarkType   = errors.New("unknown watermark type")
	ErrAlbumNotFound          = errors.New("album not found")
	ErrOriginalNotFound       = errors.New("original object not found")
	ErrWatermarkImageNotFound = errors.New("watermark image not found")
	ErrProcessingConflict     = errors.New("file is already being processed")
)
