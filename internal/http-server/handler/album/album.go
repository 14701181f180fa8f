package album

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"photo-gallery/internal/domain"
	"photo-gallery/internal/http-server/handler/album/dto"
	album_uc "photo-gallery/internal/usecase/album"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

const maxMemory = 32 << 20

type AlbumHandler struct {
	usecase  albumUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewAlbumHandler(usecase albumUsecase, logger *zlog.Zerolog) *AlbumHandler {
	return &AlbumHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.CreateAlbumRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "MISSING_FIELDS", "name and author are required", err)
		return
	}

	album := &domain.Album{
		Name:         req.Name,
		Location:     req.Location,
		EventDate:    req.EventDate,
		Author:       req.Author,
		IsPublic:     req.IsPublic,
		IsCommercial: req.IsCommercial,
	}
	if req.WatermarkSettings != nil {
		album.WatermarkSettings = *req.WatermarkSettings
	}

	if err := h.usecase.CreateAlbum(ctx, album); err != nil {
		if errors.Is(err, album_uc.ErrAlbumExists) {
			h.respondError(w, http.StatusConflict, "ALBUM_EXISTS", "Album already exists", nil)
			return
		}
		h.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create album")
		h.respondError(w, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create album", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, dto.AlbumResponse{Success: true, Album: album})
}

func (h *AlbumHandler) CreateStructure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	albumID := chi.URLParam(r, "id")
	if albumID == "" {
		h.respondError(w, http.StatusBadRequest, "MISSING_FIELDS", "Album ID is required", nil)
		return
	}

	var req dto.CreateStructureRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.respondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err)
			return
		}
	}

	folders, settings, err := h.usecase.InitStructure(ctx, albumID, req.WatermarkSettings)
	if err != nil {
		h.handleAlbumError(w, err, albumID, "Failed to create album structure")
		return
	}

	h.respondJSON(w, http.StatusOK, dto.CreateStructureResponse{
		Success:           true,
		Folders:           folders,
		WatermarkSettings: settings,
	})
}

func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	albumID := chi.URLParam(r, "id")
	album, err := h.usecase.GetAlbum(ctx, albumID)
	if err != nil {
		h.handleAlbumError(w, err, albumID, "Failed to get album")
		return
	}

	h.respondJSON(w, http.StatusOK, dto.AlbumResponse{Success: true, Album: album})
}

func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	publicOnly := r.URL.Query().Get("public") == "true"
	albums, err := h.usecase.ListAlbums(ctx, publicOnly)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list albums")
		h.respondError(w, http.StatusInternalServerError, "LIST_FAILED", "Failed to list albums", err)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.AlbumListResponse{Success: true, Albums: albums})
}

func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	albumID := chi.URLParam(r, "id")
	if err := h.usecase.DeleteAlbum(ctx, albumID); err != nil {
		h.handleAlbumError(w, err, albumID, "Failed to delete album")
		return
	}

	h.logger.Info().Str("album_id", albumID).Msg("Album deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (h *AlbumHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	albumID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, domain.DefaultMaxUploadSize)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		h.respondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid multipart form", err)
		return
	}

	file, handler, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "MISSING_FIELDS", "File is required", nil)
		return
	}
	defer file.Close()

	if err := h.validateFile(handler); err != nil {
		h.respondError(w, http.StatusBadRequest, "INVALID_FILE", err.Error(), nil)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Str("filename", handler.Filename).Msg("Failed to read upload")
		h.respondError(w, http.StatusInternalServerError, "READ_FAILED", "Failed to read file", err)
		return
	}

	uploadedBy := r.FormValue("uploadedBy")
	entry, err := h.usecase.UploadPhoto(ctx, albumID, handler.Filename, handler.Header.Get("Content-Type"), uploadedBy, data)
	if err != nil {
		h.handleAlbumError(w, err, albumID, "Failed to upload photo")
		return
	}

	h.logger.Info().
		Str("album_id", albumID).
		Str("file_name", entry.FileName).
		Msg("Photo accepted")

	h.respondJSON(w, http.StatusAccepted, dto.UploadPhotoResponse{
		Success: true,
		Photo:   entry,
		Status:  string(domain.StatusPending),
	})
}

func (h *AlbumHandler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	albumID := chi.URLParam(r, "id")
	fileName := chi.URLParam(r, "fileName")

	rc, contentType, err := h.usecase.GetPhoto(ctx, albumID, fileName)
	if err != nil {
		if errors.Is(err, album_uc.ErrPhotoNotFound) {
			h.respondError(w, http.StatusNotFound, "PHOTO_NOT_FOUND", "Photo not found", nil)
			return
		}
		h.handleAlbumError(w, err, albumID, "Failed to get photo")
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName))
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error().Err(err).
			Str("album_id", albumID).
			Str("file_name", fileName).
			Msg("Failed to stream photo")
	}
}

func (h *AlbumHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	albumID := chi.URLParam(r, "id")
	fileName := chi.URLParam(r, "fileName")

	status, err := h.usecase.GetStatus(ctx, albumID, fileName)
	if err != nil {
		if errors.Is(err, album_uc.ErrNoStatus) {
			h.respondError(w, http.StatusNotFound, "STATUS_NOT_FOUND", "No processing status for file", nil)
			return
		}
		h.handleAlbumError(w, err, albumID, "Failed to get status")
		return
	}

	h.respondJSON(w, http.StatusOK, dto.StatusResponse{Success: true, Status: status})
}

func (h *AlbumHandler) validateFile(handler *multipart.FileHeader) error {
	if handler.Size > domain.DefaultMaxUploadSize {
		return fmt.Errorf("file is too large (max %d MB)", domain.DefaultMaxUploadSize/(1024*1024))
	}

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	allowed := map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true,
		".gif": true, ".webp": true, ".bmp": true, ".tiff": true,
	}
	if !allowed[ext] {
		return fmt.Errorf("unsupported file format, allowed: jpg, jpeg, png, gif, webp, bmp, tiff")
	}

	contentType := handler.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return fmt.Errorf("file must be an image")
	}
	return nil
}

func (h *AlbumHandler) handleAlbumError(w http.ResponseWriter, err error, albumID, message string) {
	if errors.Is(err, album_uc.ErrAlbumNotFound) {
		h.respondError(w, http.StatusNotFound, "ALBUM_NOT_FOUND", "Album not found", nil)
		return
	}
	h.logger.Error().Err(err).Str("album_id", albumID).Msg(message)
	h.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", message, err)
}

func (h *AlbumHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *AlbumHandler) respondError(w http.ResponseWriter, status int, code, message string, err error) {
	response := dto.ErrorResponse{
		Error: message,
		Code:  code,
	}
	if err != nil {
		response.Details = err.Error()
	}
	h.respondJSON(w, status, response)
}
