package album

import "errors"

var (
	ErrAlbumNotFound = errors.New("album not found")
	ErrAlbumExists   = errors.New("album already exists")
	ErrPhotoNotFound = errors.New("photo not found")
	ErrNoStatus      = errors.New("no processing status for file")
)
