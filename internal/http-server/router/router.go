package router

import (
	"net/http"

	"photo-gallery/internal/http-server/handler/album"
	"photo-gallery/internal/http-server/handler/enhance"
	"photo-gallery/internal/http-server/handler/watermark"
	"photo-gallery/internal/http-server/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

type Handler struct {
	AlbumHandler     *album.AlbumHandler
	WatermarkHandler *watermark.WatermarkHandler
	EnhanceHandler   *enhance.EnhanceHandler
	JWTSecret        string
	AllowedOrigins   []string
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins:   h.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})
	r.Use(c.Handler)

	r.Route("/api", func(r chi.Router) {
		r.Route("/albums", func(r chi.Router) {
			r.Post("/", h.AlbumHandler.CreateAlbum)
			r.Get("/", h.AlbumHandler.ListAlbums)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.AlbumHandler.GetAlbum)
				r.Delete("/", h.AlbumHandler.DeleteAlbum)
				r.Post("/structure", h.AlbumHandler.CreateStructure)
				r.Post("/photos", h.AlbumHandler.UploadPhoto)
				r.Get("/photos/{fileName}", h.AlbumHandler.GetPhoto)
				r.Get("/status/{fileName}", h.AlbumHandler.GetStatus)
			})
		})

		r.Route("/watermark", func(r chi.Router) {
			r.Post("/process", h.WatermarkHandler.Process)
			r.Post("/retry", h.WatermarkHandler.Retry)
		})

		r.With(middleware.JWTAuth(h.JWTSecret)).
			Post("/enhance", h.EnhanceHandler.Enhance)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
