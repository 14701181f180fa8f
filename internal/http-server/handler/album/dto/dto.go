package dto

import (
	"time"

	"photo-gallery/internal/domain"
)

type CreateAlbumRequest struct {
	Name              string                    `json:"name" validate:"required"`
	Location          string                    `json:"location,omitempty"`
	EventDate         time.Time                 `json:"eventDate,omitempty"`
	Author            domain.Author             `json:"author" validate:"required"`
	IsPublic          bool                      `json:"isPublic"`
	IsCommercial      bool                      `json:"isCommercial"`
	WatermarkSettings *domain.WatermarkSettings `json:"watermarkSettings,omitempty"`
}

type CreateStructureRequest struct {
	WatermarkSettings *domain.WatermarkSettings `json:"watermarkSettings,omitempty"`
}

type CreateStructureResponse struct {
	Success           bool                     `json:"success"`
	Folders           domain.Folders           `json:"folders"`
	WatermarkSettings domain.WatermarkSettings `json:"watermarkSettings"`
}

type AlbumResponse struct {
	Success bool          `json:"success"`
	Album   *domain.Album `json:"album"`
}

type AlbumListResponse struct {
	Success bool           `json:"success"`
	Albums  []domain.Album `json:"albums"`
}

type UploadPhotoResponse struct {
	Success bool               `json:"success"`
	Photo   *domain.PhotoEntry `json:"photo"`
	Status  string             `json:"status"`
}

type StatusResponse struct {
	Success bool                    `json:"success"`
	Status  domain.ProcessingStatus `json:"status"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}
