package watermark

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path"
	"strings"
	"time"

	"photo-gallery/internal/domain"
	album_repo "photo-gallery/internal/repository/album"
	"photo-gallery/internal/usecase/processor/operations"

	"github.com/google/uuid"
	"github.com/wb-go/wbf/zlog"
)

type ProcessRequest struct {
	FilePath string
	AlbumID  string
	Settings domain.WatermarkSettings
	Metadata map[string]string
}

type ProcessResult struct {
	FileName       string
	AlbumID        string
	Status         string
	OriginalURL    string
	WatermarkedURL string
}

// WatermarkUsecase drives a single file through the
// pending -> processing -> completed|error state machine. The processing
// transition is a guarded update in the album store, so overlapping
// invocations for the same (album, file) resolve to one winner.
type WatermarkUsecase struct {
	albums   albumRepository
	files    fileRepository
	producer resultProducer
	overlay  *operations.TextOverlay
	logger   *zlog.Zerolog
}

func NewWatermarkUsecase(albums albumRepository, files fileRepository, producer resultProducer, overlay *operations.TextOverlay, logger *zlog.Zerolog) *WatermarkUsecase {
	return &WatermarkUsecase{
		albums:   albums,
		files:    files,
		producer: producer,
		overlay:  overlay,
		logger:   logger,
	}
}

// Process runs the full watermark pipeline for one original object.
// Validation failures return before any state is written; once the status
// entry reaches "processing", every failure is recorded as "error" on it.
func (u *WatermarkUsecase) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	if req.FilePath == "" || req.AlbumID == "" {
		return nil, ErrMissingFields
	}
	if !domain.IsOriginalPath(req.FilePath) {
		return nil, ErrNotOriginalPath
	}
	if req.Settings.Enabled && !req.Settings.Type.Valid() {
		return nil, ErrInvalidWatermarkType
	}

	fileName := domain.FileNameFromPath(req.FilePath)

	if !req.Settings.Enabled {
		u.logger.Info().
			Str("album_id", req.AlbumID).
			Str("file_name", fileName).
			Msg("Watermark disabled, skipping")
		return &ProcessResult{
			FileName:    fileName,
			AlbumID:     req.AlbumID,
			Status:      domain.ResultSkipped,
			OriginalURL: u.files.ObjectURL(req.FilePath),
		}, nil
	}

	// Status goes to "processing" before any slow I/O so a crashed job leaves
	// a visible signal instead of silence.
	attempt, err := u.albums.MarkProcessing(ctx, req.AlbumID, fileName)
	if err != nil {
		if errors.Is(err, album_repo.ErrAlbumNotFound) {
			return nil, ErrAlbumNotFound
		}
		if errors.Is(err, album_repo.ErrStatusConflict) {
			return nil, ErrProcessingConflict
		}
		return nil, fmt.Errorf("failed to mark processing: %w", err)
	}

	u.logger.Info().
		Str("album_id", req.AlbumID).
		Str("file_name", fileName).
		Int("attempt", attempt).
		Str("type", string(req.Settings.Type)).
		Msg("Processing watermark")

	result, err := u.process(ctx, req, fileName)
	if err != nil {
		u.fail(ctx, req.AlbumID, fileName, attempt, err)
		return nil, err
	}

	u.publishResult(ctx, &domain.WatermarkResult{
		ID:              uuid.New().String(),
		AlbumID:         req.AlbumID,
		FileName:        fileName,
		Status:          domain.ResultCompleted,
		WatermarkedPath: domain.WatermarkedPath(req.AlbumID, fileName),
	})

	u.logger.Info().
		Str("album_id", req.AlbumID).
		Str("file_name", fileName).
		Int("attempt", attempt).
		Msg("Watermark completed")

	return result, nil
}

func (u *WatermarkUsecase) process(ctx context.Context, req ProcessRequest, fileName string) (*ProcessResult, error) {
	album, err := u.albums.GetByID(ctx, req.AlbumID)
	if err != nil {
		if errors.Is(err, album_repo.ErrAlbumNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, fmt.Errorf("failed to load album: %w", err)
	}

	original, err := u.downloadImage(ctx, req.FilePath)
	if err != nil {
		return nil, err
	}
	bounds := original.Bounds()

	var overlay image.Image
	switch req.Settings.Type {
	case domain.WatermarkTypeText:
		overlay, err = u.overlay.Render(operations.TextParams{
			Text:      req.Settings.Text,
			Width:     bounds.Dx(),
			Height:    bounds.Dy(),
			Opacity:   req.Settings.Opacity,
			Hidden:    req.Settings.IsHidden,
			FontColor: req.Settings.FontColor,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render text overlay: %w", err)
		}
	case domain.WatermarkTypeImage:
		overlay, err = u.loadImageOverlay(ctx, album, bounds.Dx())
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrInvalidWatermarkType
	}

	watermarked := operations.Composite(original, overlay)
	encoded, err := operations.EncodeJPEG(watermarked)
	if err != nil {
		return nil, err
	}

	watermarkedPath := domain.WatermarkedPath(req.AlbumID, fileName)
	err = u.files.SaveObject(ctx, watermarkedPath, bytes.NewReader(encoded), int64(len(encoded)), "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("failed to upload watermarked object: %w", err)
	}

	// The status record is authoritative and written right after the blob.
	if err := u.albums.MarkCompleted(ctx, req.AlbumID, fileName, watermarkedPath); err != nil {
		return nil, fmt.Errorf("failed to mark completed: %w", err)
	}

	// Secondary photo record, best-effort.
	record := &domain.PhotoRecord{
		ID:              uuid.New().String(),
		AlbumID:         req.AlbumID,
		FileName:        fileName,
		OriginalPath:    req.FilePath,
		WatermarkedPath: watermarkedPath,
		CreatedAt:       time.Now(),
	}
	if err := u.albums.SavePhotoRecord(ctx, record); err != nil {
		u.logger.Error().Err(err).
			Str("album_id", req.AlbumID).
			Str("file_name", fileName).
			Msg("Failed to save photo record")
	}

	return &ProcessResult{
		FileName:       fileName,
		AlbumID:        req.AlbumID,
		Status:         domain.ResultCompleted,
		OriginalURL:    u.files.ObjectURL(req.FilePath),
		WatermarkedURL: u.files.ObjectURL(watermarkedPath),
	}, nil
}

// Retry verifies the original still exists, resets the file's status to
// "pending" and re-enters the processor with the album's current settings.
func (u *WatermarkUsecase) Retry(ctx context.Context, albumID, fileName string) (*ProcessResult, error) {
	album, err := u.albums.GetByID(ctx, albumID)
	if err != nil {
		if errors.Is(err, album_repo.ErrAlbumNotFound) {
			return nil, ErrAlbumNotFound
		}
		return nil, fmt.Errorf("failed to load album: %w", err)
	}

	originalPath := domain.OriginalPath(albumID, fileName)
	exists, err := u.files.ObjectExists(ctx, originalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check original object: %w", err)
	}
	if !exists {
		return nil, ErrOriginalNotFound
	}

	if err := u.albums.ResetStatus(ctx, albumID, fileName); err != nil {
		return nil, fmt.Errorf("failed to reset status: %w", err)
	}

	return u.Process(ctx, ProcessRequest{
		FilePath: originalPath,
		AlbumID:  albumID,
		Settings: album.WatermarkSettings,
		Metadata: map[string]string{"trigger": "retry"},
	})
}

func (u *WatermarkUsecase) downloadImage(ctx context.Context, objectPath string) (image.Image, error) {
	rc, err := u.files.GetObject(ctx, objectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", objectPath, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", objectPath, err)
	}
	return operations.Decode(bytes.NewReader(data))
}

// loadImageOverlay locates the single overlay PNG in the album's
// watermark-image folder. Placeholder markers are ignored; an empty folder is
// a hard error for the job.
func (u *WatermarkUsecase) loadImageOverlay(ctx context.Context, album *domain.Album, targetWidth int) (image.Image, error) {
	folder := album.Folders.WatermarkImage
	if folder == "" {
		folder = domain.WatermarkImageFolder(album.ID)
	}

	paths, err := u.files.ListFolder(ctx, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to list watermark folder: %w", err)
	}

	var overlayPath string
	for _, p := range paths {
		name := path.Base(p)
		if name == domain.KeepMarker {
			continue
		}
		if strings.EqualFold(path.Ext(name), ".png") {
			overlayPath = p
			break
		}
	}
	if overlayPath == "" {
		return nil, ErrWatermarkImageNotFound
	}

	overlay, err := u.downloadImage(ctx, overlayPath)
	if err != nil {
		return nil, err
	}
	return operations.FitOverlay(overlay, targetWidth), nil
}

func (u *WatermarkUsecase) fail(ctx context.Context, albumID, fileName string, attempt int, cause error) {
	u.logger.Error().Err(cause).
		Str("album_id", albumID).
		Str("file_name", fileName).
		Int("attempt", attempt).
		Msg("Watermark processing failed")

	if err := u.albums.MarkFailed(ctx, albumID, fileName, cause.Error()); err != nil {
		u.logger.Error().Err(err).
			Str("album_id", albumID).
			Str("file_name", fileName).
			Msg("Failed to record error status")
	}

	u.publishResult(ctx, &domain.WatermarkResult{
		ID:       uuid.New().String(),
		AlbumID:  albumID,
		FileName: fileName,
		Status:   domain.ResultError,
		Error:    cause.Error(),
	})
}

func (u *WatermarkUsecase) publishResult(ctx context.Context, result *domain.WatermarkResult) {
	if u.producer == nil {
		return
	}
	if err := u.producer.SendResult(ctx, result); err != nil {
		u.logger.Error().Err(err).
			Str("album_id", result.AlbumID).
			Str("file_name", result.FileName).
			Msg("Failed to publish result")
	}
}
