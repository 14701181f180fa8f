package album

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"photo-gallery/internal/domain"
	album_repo "photo-gallery/internal/repository/album"
	file_repo "photo-gallery/internal/repository/file"
	"photo-gallery/internal/usecase/processor/operations"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

type AlbumUsecase struct {
	albums      albumRepository
	files       fileRepository
	producer    jobProducer
	defaultText string
	logger      *zlog.Zerolog
}

func NewAlbumUsecase(albums albumRepository, files fileRepository, producer jobProducer, defaultText string, logger *zlog.Zerolog) *AlbumUsecase {
	return &AlbumUsecase{
		albums:      albums,
		files:       files,
		producer:    producer,
		defaultText: defaultText,
		logger:      logger,
	}
}

// defaultSettings is the configured baseline that album-level overrides are
// merged onto.
func (u *AlbumUsecase) defaultSettings() domain.WatermarkSettings {
	defaults := domain.DefaultWatermarkSettings()
	if u.defaultText != "" {
		defaults.Text = u.defaultText
	}
	return defaults
}

// CreateAlbum writes the album document and initializes its storage
// structure. The author is immutable after this point.
func (u *AlbumUsecase) CreateAlbum(ctx context.Context, album *domain.Album) error {
	if album.ID == "" {
		album.ID = uuid.New().String()
	}
	album.CreatedAt = time.Now()
	album.Folders = domain.DefaultFolders(album.ID)
	album.WatermarkSettings = mergeSettings(u.defaultSettings(), &album.WatermarkSettings)

	if err := u.albums.Create(ctx, album); err != nil {
		if errors.Is(err, album_repo.ErrAlbumExists) {
			return ErrAlbumExists
		}
		return fmt.Errorf("failed to create album: %w", err)
	}

	if _, _, err := u.InitStructure(ctx, album.ID, &album.WatermarkSettings); err != nil {
		return fmt.Errorf("failed to initialize album structure: %w", err)
	}

	u.logger.Info().
		Str("album_id", album.ID).
		Str("author", album.Author.UID).
		Msg("Album created")
	return nil
}

// InitStructure creates the three folder markers and writes the merged
// watermark configuration. Re-running overwrites the same markers, so the
// operation is idempotent in effect; the three writes are not transactional
// and a partial failure is repaired lazily on the read path.
func (u *AlbumUsecase) InitStructure(ctx context.Context, albumID string, settings *domain.WatermarkSettings) (domain.Folders, domain.WatermarkSettings, error) {
	// Existence first, so an unknown album id never leaves orphan markers in
	// the blob store.
	if _, err := u.albums.GetByID(ctx, albumID); err != nil {
		return domain.Folders{}, domain.WatermarkSettings{}, u.mapAlbumErr(err)
	}

	folders := domain.DefaultFolders(albumID)

	for _, folder := range []string{folders.Original, folders.Watermarked, folders.WatermarkImage} {
		if err := u.files.CreateFolderMarker(ctx, folder); err != nil {
			return domain.Folders{}, domain.WatermarkSettings{}, fmt.Errorf("failed to create folder %s: %w", folder, err)
		}
	}

	merged := mergeSettings(u.defaultSettings(), settings)

	if err := u.albums.SetFolders(ctx, albumID, folders); err != nil {
		return domain.Folders{}, domain.WatermarkSettings{}, u.mapAlbumErr(err)
	}
	if err := u.albums.SetWatermarkSettings(ctx, albumID, merged); err != nil {
		return domain.Folders{}, domain.WatermarkSettings{}, u.mapAlbumErr(err)
	}

	return folders, merged, nil
}

// GetAlbum loads an album and repairs missing folder paths in place. The
// repair write happens on the read path by design: a structure init that
// partially failed heals the first time anyone opens the album.
func (u *AlbumUsecase) GetAlbum(ctx context.Context, id string) (*domain.Album, error) {
	album, err := u.albums.GetByID(ctx, id)
	if err != nil {
		return nil, u.mapAlbumErr(err)
	}

	if !album.Folders.Complete() {
		folders := domain.DefaultFolders(id)
		if err := u.albums.SetFolders(ctx, id, folders); err != nil {
			u.logger.Error().Err(err).Str("album_id", id).Msg("Failed to repair folders")
		} else {
			u.logger.Info().Str("album_id", id).Msg("Repaired missing folder paths")
		}
		album.Folders = folders
	}

	return album, nil
}

func (u *AlbumUsecase) ListAlbums(ctx context.Context, publicOnly bool) ([]domain.Album, error) {
	albums, err := u.albums.List(ctx, publicOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

// DeleteAlbum cascades: all blobs under the album prefix, then the secondary
// photo records, then the document. No soft-delete.
func (u *AlbumUsecase) DeleteAlbum(ctx context.Context, id string) error {
	if _, err := u.albums.GetByID(ctx, id); err != nil {
		return u.mapAlbumErr(err)
	}

	if err := u.files.RemoveObjectsWithPrefix(ctx, domain.AlbumPrefix(id)); err != nil {
		return fmt.Errorf("failed to delete album objects: %w", err)
	}

	if err := u.albums.DeletePhotoRecords(ctx, id); err != nil {
		u.logger.Error().Err(err).Str("album_id", id).Msg("Failed to delete photo records")
	}

	if err := u.albums.Delete(ctx, id); err != nil {
		return u.mapAlbumErr(err)
	}

	u.logger.Info().Str("album_id", id).Msg("Album deleted")
	return nil
}

// UploadPhoto stores the original object, appends the photo entry, seeds a
// "pending" status and publishes a watermark job when the album has
// watermarking enabled.
func (u *AlbumUsecase) UploadPhoto(ctx context.Context, albumID, fileName, contentType, uploadedBy string, data []byte) (*domain.PhotoEntry, error) {
	album, err := u.GetAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	originalPath := domain.OriginalPath(albumID, fileName)
	if contentType == "" {
		contentType = operations.ContentTypeForPath(fileName)
	}
	err = u.files.SaveObject(ctx, originalPath, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to save original: %w", err)
	}

	entry := domain.PhotoEntry{
		ID:         uuid.New().String(),
		URL:        u.files.ObjectURL(originalPath),
		FileName:   fileName,
		UploadedBy: uploadedBy,
		UploadedAt: time.Now(),
		TakenAt:    takenAt(data),
	}
	if err := u.albums.AppendPhoto(ctx, albumID, entry); err != nil {
		return nil, u.mapAlbumErr(err)
	}

	if err := u.albums.ResetStatus(ctx, albumID, fileName); err != nil {
		return nil, u.mapAlbumErr(err)
	}

	if album.WatermarkSettings.Enabled {
		job := &domain.WatermarkJob{
			ID:       uuid.New().String(),
			AlbumID:  albumID,
			FilePath: originalPath,
			Settings: album.WatermarkSettings,
			Metadata: map[string]string{"uploaded_by": uploadedBy},
		}
		if err := u.producer.SendJob(ctx, job); err != nil {
			// The file stays pending; a retry request re-enters the pipeline.
			u.logger.Error().Err(err).
				Str("album_id", albumID).
				Str("file_name", fileName).
				Msg("Failed to publish watermark job")
		}
	}

	u.logger.Info().
		Str("album_id", albumID).
		Str("file_name", fileName).
		Str("uploaded_by", uploadedBy).
		Msg("Photo uploaded")
	return &entry, nil
}

// GetPhoto streams the watermarked variant when it exists, otherwise the
// original. The blob store is probed directly: presence of the derived
// object, not the status record, decides which variant the viewer gets.
func (u *AlbumUsecase) GetPhoto(ctx context.Context, albumID, fileName string) (io.ReadCloser, string, error) {
	watermarkedPath := domain.WatermarkedPath(albumID, fileName)
	exists, err := u.files.ObjectExists(ctx, watermarkedPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to probe watermarked object: %w", err)
	}

	objectPath := domain.OriginalPath(albumID, fileName)
	contentType := operations.ContentTypeForPath(fileName)
	if exists {
		objectPath = watermarkedPath
		contentType = "image/jpeg"
	}

	rc, err := u.files.GetObject(ctx, objectPath)
	if err != nil {
		if errors.Is(err, file_repo.ErrFileNotFound) {
			return nil, "", ErrPhotoNotFound
		}
		return nil, "", fmt.Errorf("failed to get photo: %w", err)
	}
	return rc, contentType, nil
}

func (u *AlbumUsecase) GetStatus(ctx context.Context, albumID, fileName string) (domain.ProcessingStatus, error) {
	album, err := u.albums.GetByID(ctx, albumID)
	if err != nil {
		return domain.ProcessingStatus{}, u.mapAlbumErr(err)
	}

	status, ok := album.StatusFor(fileName)
	if !ok {
		return domain.ProcessingStatus{}, ErrNoStatus
	}
	return status, nil
}

func (u *AlbumUsecase) mapAlbumErr(err error) error {
	if errors.Is(err, album_repo.ErrAlbumNotFound) {
		return ErrAlbumNotFound
	}
	return err
}

// mergeSettings overlays non-zero fields from overrides onto the defaults.
func mergeSettings(base domain.WatermarkSettings, overrides *domain.WatermarkSettings) domain.WatermarkSettings {
	if overrides == nil {
		return base
	}

	merged := base
	merged.Enabled = overrides.Enabled
	merged.IsHidden = overrides.IsHidden
	if overrides.Type != "" {
		merged.Type = overrides.Type
	}
	if overrides.Text != "" {
		merged.Text = overrides.Text
	}
	if overrides.Opacity > 0 {
		merged.Opacity = overrides.Opacity
	}
	if overrides.FontColor != "" {
		merged.FontColor = overrides.FontColor
	}
	if overrides.Position != "" {
		merged.Position = overrides.Position
	}
	if overrides.ImageURL != "" {
		merged.ImageURL = overrides.ImageURL
	}
	return merged
}
