package watermark

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"photo-gallery/internal/domain"
	"photo-gallery/internal/http-server/handler/watermark/dto"
	watermark_uc "photo-gallery/internal/usecase/watermark"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

type WatermarkHandler struct {
	usecase  watermarkUsecase
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewWatermarkHandler(usecase watermarkUsecase, logger *zlog.Zerolog) *WatermarkHandler {
	return &WatermarkHandler{
		usecase:  usecase,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *WatermarkHandler) Process(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "MISSING_FIELDS", "filePath, albumId and watermarkSettings are required", err)
		return
	}

	result, err := h.usecase.Process(ctx, watermark_uc.ProcessRequest{
		FilePath: req.FilePath,
		AlbumID:  req.AlbumID,
		Settings: *req.WatermarkSettings,
		Metadata: req.Metadata,
	})
	if err != nil {
		h.handleProcessError(w, err, req.AlbumID, req.FilePath)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.ProcessResponse{
		Success: true,
		Data: dto.ProcessData{
			FileName: result.FileName,
			AlbumID:  result.AlbumID,
			Status:   result.Status,
			URLs: dto.URLs{
				Original:    result.OriginalURL,
				Watermarked: result.WatermarkedURL,
			},
		},
	})
}

func (h *WatermarkHandler) Retry(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.RetryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "MISSING_FIELDS", "albumId and fileName are required", err)
		return
	}

	result, err := h.usecase.Retry(ctx, req.AlbumID, req.FileName)
	if err != nil {
		h.handleProcessError(w, err, req.AlbumID, req.FileName)
		return
	}

	h.respondJSON(w, http.StatusOK, dto.RetryResponse{
		Success: true,
		Message: fmt.Sprintf("watermark for %s finished with status %s", result.FileName, result.Status),
	})
}

func (h *WatermarkHandler) handleProcessError(w http.ResponseWriter, err error, albumID, file string) {
	switch {
	case errors.Is(err, watermark_uc.ErrMissingFields):
		h.respondError(w, http.StatusBadRequest, "MISSING_FIELDS", err.Error(), nil)
	case errors.Is(err, watermark_uc.ErrNotOriginalPath):
		h.respondError(w, http.StatusBadRequest, "INVALID_PATH",
			fmt.Sprintf("filePath must contain the %s folder segment", domain.FolderOriginal), nil)
	case errors.Is(err, watermark_uc.ErrInvalidWatermarkType):
		h.respondError(w, http.StatusBadRequest, "INVALID_TYPE", "watermark type must be \"text\" or \"image\"", nil)
	case errors.Is(err, watermark_uc.ErrOriginalNotFound):
		h.respondError(w, http.StatusNotFound, "ORIGINAL_NOT_FOUND", "Original object not found", nil)
	case errors.Is(err, watermark_uc.ErrProcessingConflict):
		h.respondError(w, http.StatusConflict, "PROCESSING_CONFLICT", "File is already being processed", nil)
	case errors.Is(err, watermark_uc.ErrAlbumNotFound):
		h.logger.Error().Str("album_id", albumID).Str("file", file).Msg("Album not found during processing")
		h.respondError(w, http.StatusInternalServerError, "ALBUM_NOT_FOUND", "Album not found", nil)
	case errors.Is(err, watermark_uc.ErrWatermarkImageNotFound):
		h.logger.Error().Str("album_id", albumID).Str("file", file).Msg("Watermark image not found")
		h.respondError(w, http.StatusInternalServerError, "WATERMARK_IMAGE_NOT_FOUND", "Watermark image not found in album", nil)
	default:
		h.logger.Error().Err(err).Str("album_id", albumID).Str("file", file).Msg("Watermark processing failed")
		h.respondError(w, http.StatusInternalServerError, "PROCESSING_FAILED", "Watermark processing failed", err)
	}
}

func (h *WatermarkHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func (h *WatermarkHandler) respondError(w http.ResponseWriter, status int, code, message string, err error) {
	response := dto.ErrorResponse{
		Error: message,
		Code:  code,
	}
	if err != nil {
		response.Details = err.Error()
	}
	h.respondJSON(w, status, response)
}
