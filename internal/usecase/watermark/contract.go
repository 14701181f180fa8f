package watermark

import (
	"context"
	"io"

	"photo-gallery/internal/domain"
)

type albumRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Album, error)
	MarkProcessing(ctx context.Context, albumID, fileName string) (int, error)
	MarkCompleted(ctx context.Context, albumID, fileName, watermarkedPath string) error
	MarkFailed(ctx context.Context, albumID, fileName, message string) error
	ResetStatus(ctx context.Context, albumID, fileName string) error
	SavePhotoRecord(ctx context.Context, record *domain.PhotoRecord) error
}

type fileRepository interface {
	GetObject(ctx context.Context, path string) (io.ReadCloser, error)
	SaveObject(ctx context.Context, path string, data io.Reader, size int64, contentType string) error
	ObjectExists(ctx context.Context, path string) (bool, error)
	ListFolder(ctx context.Context, prefix string) ([]string, error)
	ObjectURL(path string) string
}

type resultProducer interface {
	SendResult(ctx context.Context, result *domain.WatermarkResult) error
}
