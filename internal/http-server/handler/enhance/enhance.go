package enhance

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"photo-gallery/internal/http-server/handler/enhance/dto"
	enhance_uc "photo-gallery/internal/usecase/enhance"

	"github.com/go-playground/validator/v10"
	"github.com/wb-go/wbf/zlog"
)

type EnhanceHandler struct {
	enhancer enhancer
	validate *validator.Validate
	logger   *zlog.Zerolog
}

func NewEnhanceHandler(enhancer enhancer, logger *zlog.Zerolog) *EnhanceHandler {
	return &EnhanceHandler{
		enhancer: enhancer,
		validate: validator.New(),
		logger:   logger,
	}
}

// Enhance fetches the source image, runs the enhancement chain and returns
// the result as a raw JPEG body.
func (h *EnhanceHandler) Enhance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req dto.EnhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body", err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.respondError(w, http.StatusBadRequest, "MISSING_FIELDS", "imageUrl is required", err)
		return
	}

	if !h.enhancer.Ready() {
		h.respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Enhancer is not ready", nil)
		return
	}

	data, err := h.enhancer.Enhance(ctx, req.ImageURL)
	if err != nil {
		if errors.Is(err, enhance_uc.ErrUpstreamFetch) {
			h.respondError(w, http.StatusInternalServerError, "UPSTREAM_FETCH_FAILED", "Failed to fetch source image", err)
			return
		}
		h.logger.Error().Err(err).Str("image_url", req.ImageURL).Msg("Failed to enhance image")
		h.respondError(w, http.StatusInternalServerError, "ENHANCE_FAILED", "Failed to enhance image", err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to write enhanced image")
	}
}

func (h *EnhanceHandler) respondError(w http.ResponseWriter, status int, code, message string, err error) {
	response := dto.ErrorResponse{
		Error: message,
		Code:  code,
	}
	if err != nil {
		response.Details = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(response); encErr != nil {
		h.logger.Error().Err(encErr).Msg("Failed to encode response")
	}
}
