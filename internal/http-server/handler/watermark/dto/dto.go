package dto

import "photo-gallery/internal/domain"

type ProcessRequest struct {
	FilePath          string                    `json:"filePath" validate:"required"`
	AlbumID           string                    `json:"albumId" validate:"required"`
	WatermarkSettings *domain.WatermarkSettings `json:"watermarkSettings" validate:"required"`
	Metadata          map[string]string         `json:"metadata,omitempty"`
}

type RetryRequest struct {
	AlbumID  string `json:"albumId" validate:"required"`
	FileName string `json:"fileName" validate:"required"`
}

type URLs struct {
	Original    string `json:"original"`
	Watermarked string `json:"watermarked,omitempty"`
}

type ProcessData struct {
	FileName string `json:"fileName"`
	AlbumID  string `json:"albumId"`
	Status   string `json:"status"`
	URLs     URLs   `json:"urls"`
}

type ProcessResponse struct {
	Success bool        `json:"success"`
	Data    ProcessData `json:"data"`
}

type RetryResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
