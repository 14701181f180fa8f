package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"photo-gallery/internal/broker"
	kafka_impl "photo-gallery/internal/broker/kafka"
	"photo-gallery/internal/config"
	"photo-gallery/internal/domain"
	mongo_repo "photo-gallery/internal/repository/album/mongo"
	minio_repo "photo-gallery/internal/repository/file/minio"
	"photo-gallery/internal/usecase/processor/operations"
	watermark_uc "photo-gallery/internal/usecase/watermark"

	"github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/zlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Worker consumes watermark jobs and runs them through the same usecase the
// HTTP server uses. Concurrency is bounded by cfg.Worker.Concurrency.
type Worker struct {
	cfg         *config.Config
	logger      *zlog.Zerolog
	mongoClient *mongo.Client
	broker      *kafka_impl.KafkaClient
	usecase     *watermark_uc.WatermarkUsecase
}

func NewWorker(cfg *config.Config, logger *zlog.Zerolog) (*Worker, error) {
	retries := cfg.DefaultRetryStrategy()

	ctx := context.Background()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	albumRepo := mongo_repo.NewAlbumsRepository(mongoClient.Database(cfg.Mongo.Database), logger)

	fileRepo, err := minio_repo.NewFileRepository(ctx, cfg, retries, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create file repository: %w", err)
	}

	brokerClient := kafka_impl.NewKafkaClient(cfg)
	resultPublisher := broker.NewResultPublisher(brokerClient, retries)

	overlay, err := operations.NewTextOverlay()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text overlay: %w", err)
	}

	usecase := watermark_uc.NewWatermarkUsecase(albumRepo, fileRepo, resultPublisher, overlay, logger)

	return &Worker{
		cfg:         cfg,
		logger:      logger,
		mongoClient: mongoClient,
		broker:      brokerClient,
		usecase:     usecase,
	}, nil
}

func (w *Worker) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	messages := make(chan kafka.Message, w.cfg.Worker.Concurrency)

	go w.broker.StartConsuming(ctx, messages, w.cfg.DefaultRetryStrategy())

	for i := 0; i < w.cfg.Worker.Concurrency; i++ {
		go w.worker(ctx, i, messages)
	}

	w.logger.Info().Int("concurrency", w.cfg.Worker.Concurrency).Msg("Worker started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	w.logger.Info().Str("signal", sig.String()).Msg("Received signal, shutting down")
	cancel()

	if err := w.broker.Close(); err != nil {
		w.logger.Error().Err(err).Msg("Failed to close broker")
	}
	if err := w.mongoClient.Disconnect(context.Background()); err != nil {
		w.logger.Error().Err(err).Msg("Mongo disconnect failed")
	}

	return nil
}

func (w *Worker) worker(ctx context.Context, id int, messages <-chan kafka.Message) {
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Int("worker_id", id).Msg("Worker stopped")
			return
		case msg := <-messages:
			w.processMessage(ctx, id, msg)
		}
	}
}

func (w *Worker) processMessage(ctx context.Context, workerID int, msg kafka.Message) {
	var job domain.WatermarkJob
	if err := json.Unmarshal(msg.Value, &job); err != nil {
		w.logger.Error().Err(err).Int("worker_id", workerID).Msg("Failed to unmarshal job")
		w.commit(ctx, msg)
		return
	}

	w.logger.Info().
		Int("worker_id", workerID).
		Str("job_id", job.ID).
		Str("album_id", job.AlbumID).
		Str("file_path", job.FilePath).
		Msg("Processing job")

	_, err := w.usecase.Process(ctx, watermark_uc.ProcessRequest{
		FilePath: job.FilePath,
		AlbumID:  job.AlbumID,
		Settings: job.Settings,
		Metadata: job.Metadata,
	})
	switch {
	case err == nil:
	case errors.Is(err, watermark_uc.ErrProcessingConflict):
		// Another worker holds the guarded transition; the winner finishes
		// the file, so the message is safe to commit.
		w.logger.Info().
			Str("job_id", job.ID).
			Str("album_id", job.AlbumID).
			Msg("Job already in progress, skipping")
	default:
		// The usecase has recorded the failure on the status entry and
		// published an error result. Redelivery would repeat the same
		// failure, so commit and rely on the retry endpoint.
		w.logger.Error().Err(err).
			Str("job_id", job.ID).
			Str("album_id", job.AlbumID).
			Msg("Job failed")
	}

	w.commit(ctx, msg)
}

func (w *Worker) commit(ctx context.Context, msg kafka.Message) {
	if err := w.broker.Commit(ctx, msg); err != nil {
		w.logger.Error().Err(err).Msg("Failed to commit message")
	}
}
