package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"photo-gallery/internal/broker"
	kafka_impl "photo-gallery/internal/broker/kafka"
	"photo-gallery/internal/config"
	album_h "photo-gallery/internal/http-server/handler/album"
	enhance_h "photo-gallery/internal/http-server/handler/enhance"
	watermark_h "photo-gallery/internal/http-server/handler/watermark"
	"photo-gallery/internal/http-server/router"
	mongo_repo "photo-gallery/internal/repository/album/mongo"
	minio_repo "photo-gallery/internal/repository/file/minio"
	album_uc "photo-gallery/internal/usecase/album"
	enhance_uc "photo-gallery/internal/usecase/enhance"
	"photo-gallery/internal/usecase/processor/operations"
	watermark_uc "photo-gallery/internal/usecase/watermark"

	"github.com/wb-go/wbf/zlog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type App struct {
	cfg             *config.Config
	server          *http.Server
	logger          *zlog.Zerolog
	mongoClient     *mongo.Client
	jobsProducer    *kafka_impl.ProducerClient
	resultsProducer *kafka_impl.ProducerClient
	enhancer        enhance_uc.Enhancer
}

func NewApp(cfg *config.Config, logger *zlog.Zerolog) (*App, error) {
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

	jobsProducer := kafka_impl.NewProducerClient(cfg.Kafka.Brokers, cfg.Kafka.JobsTopic)
	resultsProducer := kafka_impl.NewProducerClient(cfg.Kafka.Brokers, cfg.Kafka.ResultsTopic)

	jobPublisher := broker.NewJobPublisher(jobsProducer, retries)
	resultPublisher := broker.NewResultPublisher(resultsProducer, retries)

	overlay, err := operations.NewTextOverlay()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize text overlay: %w", err)
	}

	albumUsecase := album_uc.NewAlbumUsecase(albumRepo, fileRepo, jobPublisher, cfg.Watermark.DefaultText, logger)
	watermarkUsecase := watermark_uc.NewWatermarkUsecase(albumRepo, fileRepo, resultPublisher, overlay, logger)

	enhancer := enhance_uc.NewFilterEnhancer(&http.Client{Timeout: cfg.Server.ReadTimeout}, logger)

	h := &router.Handler{
		AlbumHandler:     album_h.NewAlbumHandler(albumUsecase, logger),
		WatermarkHandler: watermark_h.NewWatermarkHandler(watermarkUsecase, logger),
		EnhanceHandler:   enhance_h.NewEnhanceHandler(enhancer, logger),
		JWTSecret:        cfg.Auth.JWTSecret,
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
	}

	mux := router.SetupRouter(h)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		cfg:             cfg,
		server:          server,
		logger:          logger,
		mongoClient:     mongoClient,
		jobsProducer:    jobsProducer,
		resultsProducer: resultsProducer,
		enhancer:        enhancer,
	}, nil
}

func (a *App) Run() error {
	a.logger.Info().Str("addr", a.cfg.Server.Addr).Msg("Starting server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.handleSignals(cancel)

	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		a.logger.Error().Err(err).Msg("Server error")
		return err
	case <-ctx.Done():
		a.logger.Info().Msg("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Server shutdown failed")
		}

		if a.jobsProducer != nil {
			a.jobsProducer.Close()
		}
		if a.resultsProducer != nil {
			a.resultsProducer.Close()
		}
		if a.enhancer != nil {
			a.enhancer.Close()
		}

		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.logger.Error().Err(err).Msg("Mongo disconnect failed")
		}

		a.logger.Info().Msg("Server stopped gracefully")
		return nil
	}
}

func (a *App) handleSignals(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	a.logger.Info().Str("signal", sig.String()).Msg("Received signal")
	cancel()
}
