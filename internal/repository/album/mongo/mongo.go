package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"photo-gallery/internal/domain"
	album_repo "photo-gallery/internal/repository/album"

	"github.com/wb-go/wbf/zlog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	albumsCollection = "albums"
	photosCollection = "photos"
)

type AlbumsRepository struct {
	albums *mongo.Collection
	photos *mongo.Collection
	logger *zlog.Zerolog
}

func NewAlbumsRepository(db *mongo.Database, logger *zlog.Zerolog) *AlbumsRepository {
	return &AlbumsRepository{
		albums: db.Collection(albumsCollection),
		photos: db.Collection(photosCollection),
		logger: logger,
	}
}

func (r *AlbumsRepository) Create(ctx context.Context, album *domain.Album) error {
	if album.Photos == nil {
		album.Photos = []domain.PhotoEntry{}
	}
	if album.ProcessingStatus == nil {
		album.ProcessingStatus = []domain.ProcessingStatus{}
	}

	_, err := r.albums.InsertOne(ctx, album)
	if mongo.IsDuplicateKeyError(err) {
		return album_repo.ErrAlbumExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert album: %w", err)
	}
	return nil
}

func (r *AlbumsRepository) GetByID(ctx context.Context, id string) (*domain.Album, error) {
	var album domain.Album
	err := r.albums.FindOne(ctx, bson.M{"_id": id}).Decode(&album)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, album_repo.ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return &album, nil
}

func (r *AlbumsRepository) List(ctx context.Context, publicOnly bool) ([]domain.Album, error) {
	filter := bson.M{}
	if publicOnly {
		filter["is_public"] = true
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.albums.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}

	var albums []domain.Album
	if err := cursor.All(ctx, &albums); err != nil {
		return nil, fmt.Errorf("failed to decode albums: %w", err)
	}
	return albums, nil
}

func (r *AlbumsRepository) Delete(ctx context.Context, id string) error {
	res, err := r.albums.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete album: %w", err)
	}
	if res.DeletedCount == 0 {
		return album_repo.ErrAlbumNotFound
	}
	return nil
}

func (r *AlbumsRepository) SetFolders(ctx context.Context, id string, folders domain.Folders) error {
	res, err := r.albums.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"folders": folders}})
	if err != nil {
		return fmt.Errorf("failed to set folders: %w", err)
	}
	if res.MatchedCount == 0 {
		return album_repo.ErrAlbumNotFound
	}
	return nil
}

func (r *AlbumsRepository) SetWatermarkSettings(ctx context.Context, id string, settings domain.WatermarkSettings) error {
	res, err := r.albums.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"watermark_settings": settings}})
	if err != nil {
		return fmt.Errorf("failed to set watermark settings: %w", err)
	}
	if res.MatchedCount == 0 {
		return album_repo.ErrAlbumNotFound
	}
	return nil
}

func (r *AlbumsRepository) AppendPhoto(ctx context.Context, id string, entry domain.PhotoEntry) error {
	res, err := r.albums.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"photos": entry}})
	if err != nil {
		return fmt.Errorf("failed to append photo: %w", err)
	}
	if res.MatchedCount == 0 {
		return album_repo.ErrAlbumNotFound
	}
	return nil
}

// MarkProcessing advances the status entry for a file to "processing" and
// increments its attempt counter. The update is guarded: an entry already in
// "processing" or "completed" is not advanced, and the caller gets
// ErrStatusConflict instead of racing a concurrent job for the same file.
func (r *AlbumsRepository) MarkProcessing(ctx context.Context, albumID, fileName string) (int, error) {
	now := time.Now()

	filter := bson.M{
		"_id": albumID,
		"processing_status": bson.M{"$elemMatch": bson.M{
			"file_name": fileName,
			"status":    bson.M{"$in": bson.A{domain.StatusPending, domain.StatusError}},
		}},
	}
	update := bson.M{
		"$set": bson.M{
			"processing_status.$.status":     domain.StatusProcessing,
			"processing_status.$.started_at": now,
			"processing_status.$.error":      "",
		},
		"$inc": bson.M{"processing_status.$.attempt": 1},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var album domain.Album
	err := r.albums.FindOneAndUpdate(ctx, filter, update, opts).Decode(&album)
	if err == nil {
		entry, ok := album.StatusFor(fileName)
		if !ok {
			return 0, fmt.Errorf("status entry for %s missing after update", fileName)
		}
		return entry.Attempt, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("failed to mark processing: %w", err)
	}

	// No retryable entry matched: either the file has never been tracked, the
	// album is gone, or another invocation holds the entry.
	entry := domain.ProcessingStatus{
		FileName:  fileName,
		Status:    domain.StatusProcessing,
		Attempt:   1,
		StartedAt: &now,
	}
	res, err := r.albums.UpdateOne(ctx,
		bson.M{"_id": albumID, "processing_status.file_name": bson.M{"$ne": fileName}},
		bson.M{"$push": bson.M{"processing_status": entry}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create processing status: %w", err)
	}
	if res.MatchedCount == 1 {
		return 1, nil
	}

	if _, err := r.GetByID(ctx, albumID); err != nil {
		return 0, err
	}
	return 0, album_repo.ErrStatusConflict
}

func (r *AlbumsRepository) MarkCompleted(ctx context.Context, albumID, fileName, watermarkedPath string) error {
	now := time.Now()
	return r.updateStatusEntry(ctx, albumID, fileName, bson.M{
		"processing_status.$.status":           domain.StatusCompleted,
		"processing_status.$.completed_at":     now,
		"processing_status.$.watermarked_path": watermarkedPath,
		"processing_status.$.error":            "",
	})
}

func (r *AlbumsRepository) MarkFailed(ctx context.Context, albumID, fileName, message string) error {
	now := time.Now()
	return r.updateStatusEntry(ctx, albumID, fileName, bson.M{
		"processing_status.$.status":    domain.StatusError,
		"processing_status.$.failed_at": now,
		"processing_status.$.error":     message,
	})
}

// ResetStatus writes a "pending" entry for the file, creating one if it does
// not exist. Attempt count is preserved so retries stay non-decreasing.
func (r *AlbumsRepository) ResetStatus(ctx context.Context, albumID, fileName string) error {
	err := r.updateStatusEntry(ctx, albumID, fileName, bson.M{
		"processing_status.$.status": domain.StatusPending,
		"processing_status.$.error":  "",
	})
	if err == nil || !errors.Is(err, album_repo.ErrStatusConflict) {
		return err
	}

	entry := domain.ProcessingStatus{FileName: fileName, Status: domain.StatusPending}
	res, err := r.albums.UpdateOne(ctx,
		bson.M{"_id": albumID, "processing_status.file_name": bson.M{"$ne": fileName}},
		bson.M{"$push": bson.M{"processing_status": entry}},
	)
	if err != nil {
		return fmt.Errorf("failed to create pending status: %w", err)
	}
	if res.MatchedCount == 0 {
		return album_repo.ErrAlbumNotFound
	}
	return nil
}

func (r *AlbumsRepository) updateStatusEntry(ctx context.Context, albumID, fileName string, set bson.M) error {
	res, err := r.albums.UpdateOne(ctx,
		bson.M{"_id": albumID, "processing_status.file_name": fileName},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update status entry: %w", err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, albumID); err != nil {
			return err
		}
		return album_repo.ErrStatusConflict
	}
	return nil
}

func (r *AlbumsRepository) SavePhotoRecord(ctx context.Context, record *domain.PhotoRecord) error {
	_, err := r.photos.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to save photo record: %w", err)
	}
	return nil
}

func (r *AlbumsRepository) DeletePhotoRecords(ctx context.Context, albumID string) error {
	_, err := r.photos.DeleteMany(ctx, bson.M{"album_id": albumID})
	if err != nil {
		return fmt.Errorf("failed to delete photo records: %w", err)
	}
	return nil
}
