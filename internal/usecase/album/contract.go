package album

import (
	"context"
	"io"

	"photo-gallery/internal/domain"
)

type albumRepository interface {
	Create(ctx context.Context, album *domain.Album) error
	GetByID(ctx context.Context, id string) (*domain.Album, error)
	List(ctx context.Context, publicOnly bool) ([]domain.Album, error)
	Delete(ctx context.Context, id string) error
	SetFolders(ctx context.Context, id string, folders domain.Folders) error
	SetWatermarkSettings(ctx context.Context, id string, settings domain.WatermarkSettings) error
	AppendPhoto(ctx context.Context, id string, entry domain.PhotoEntry) error
	ResetStatus(ctx context.Context, albumID, fileName string) error
	DeletePhotoRecords(ctx context.Context, albumID string) error
}

type fileRepository interface {
	SaveObject(ctx context.Context, path string, data io.Reader, size int64, contentType string) error
	GetObject(ctx context.Context, path string) (io.ReadCloser, error)
	ObjectExists(ctx context.Context, path string) (bool, error)
	CreateFolderMarker(ctx context.Context, folder string) error
	RemoveObjectsWithPrefix(ctx context.Context, prefix string) error
	ObjectURL(path string) string
}

type jobProducer interface {
	SendJob(ctx context.Context, job *domain.WatermarkJob) error
}
