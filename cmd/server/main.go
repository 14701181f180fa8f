package main

import (
	"os"

	"photo-gallery/internal/app"
	"photo-gallery/internal/config"

	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	_ = godotenv.Load()

	zlog.Init()

	cfg, err := config.MustLoad()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	application, err := app.NewApp(cfg, &zlog.Logger)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to create app")
	}

	if err := application.Run(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Server failed")
	}

	zlog.Logger.Info().Msg("Server exited successfully")
	os.Exit(0)
}
