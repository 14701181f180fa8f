package album

import "errors"

var (
	ErrAlbumNotFound  = errors.New("album not found")
	ErrAlbumExists    = errors.New("album already exists")
	ErrStatusConflict = errors.New("processing status conflict")
)
