package album

import (
	"context"
	"io"

	"photo-gallery/internal/domain"
)

type albumUsecase interface {
	CreateAlbum(ctx context.Context, album *domain.Album) error
	InitStructure(ctx context.Context, albumID string, settings *domain.WatermarkSettings) (domain.Folders, domain.WatermarkSettings, error)
	GetAlbum(ctx context.Context, id string) (*domain.Album, error)
	ListAlbums(ctx context.Context, publicOnly bool) ([]domain.Album, error)
	DeleteAlbum(ctx context.Context, id string) error
	UploadPhoto(ctx context.Context, albumID, fileName, contentType, uploadedBy string, data []byte) (*domain.PhotoEntry, error)
	GetPhoto(ctx context.Context, albumID, fileName string) (io.ReadCloser, string, error)
	GetStatus(ctx context.Context, albumID, fileName string) (domain.ProcessingStatus, error)
}
