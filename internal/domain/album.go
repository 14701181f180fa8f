package domain

import "time"

type Author struct {
	UID         string `bson:"uid" json:"uid"`
	DisplayName string `bson:"display_name" json:"displayName"`
}

type Folders struct {
	Original       string `bson:"original" json:"original"`
	Watermarked    string `bson:"watermarked" json:"watermarked"`
	WatermarkImage string `bson:"watermark_image" json:"watermarkImage"`
}

// Complete reports whether all three storage prefixes are set. Albums with
// incomplete folders are repaired lazily on the read path.
func (f Folders) Complete() bool {
	return f.Original != "" && f.Watermarked != "" && f.WatermarkImage != ""
}

type WatermarkType string

const (
	WatermarkTypeText  WatermarkType = "text"
	WatermarkTypeImage WatermarkType = "image"
)

func (t WatermarkType) Valid() bool {
	return t == WatermarkTypeText || t == WatermarkTypeImage
}

type WatermarkSettings struct {
	Enabled   bool          `bson:"enabled" json:"enabled"`
	Type      WatermarkType `bson:"type" json:"type"`
	Text      string        `bson:"text,omitempty" json:"text,omitempty"`
	Opacity   float64       `bson:"opacity,omitempty" json:"opacity,omitempty"`
	IsHidden  bool          `bson:"is_hidden" json:"isHidden"`
	FontColor string        `bson:"font_color,omitempty" json:"fontColor,omitempty"`
	Position  string        `bson:"position,omitempty" json:"position,omitempty"`
	ImageURL  string        `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}

// EffectiveOpacity resolves the overlay opacity. Hidden watermarks always use
// the near-invisible constant regardless of the configured value.
func (s WatermarkSettings) EffectiveOpacity() float64 {
	if s.IsHidden {
		return HiddenWatermarkOpacity
	}
	if s.Opacity <= 0 || s.Opacity > 1 {
		return DefaultWatermarkOpacity
	}
	return s.Opacity
}

func DefaultWatermarkSettings() WatermarkSettings {
	return WatermarkSettings{
		Enabled:   false,
		Type:      WatermarkTypeText,
		Text:      DefaultWatermarkText,
		Opacity:   DefaultWatermarkOpacity,
		FontColor: DefaultFontColor,
		Position:  "center",
	}
}

type PhotoEntry struct {
	ID          string     `bson:"id" json:"id"`
	URL         string     `bson:"url" json:"url"`
	FileName    string     `bson:"file_name" json:"fileName"`
	UploadedBy  string     `bson:"uploaded_by" json:"uploadedBy"`
	UploadedAt  time.Time  `bson:"uploaded_at" json:"uploadedAt"`
	TakenAt     *time.Time `bson:"taken_at,omitempty" json:"takenAt,omitempty"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
}

type ProcessingState string

const (
	StatusPending    ProcessingState = "pending"
	StatusProcessing ProcessingState = "processing"
	StatusCompleted  ProcessingState = "completed"
	StatusError      ProcessingState = "error"
)

// ProcessingStatus tracks the watermark job for a single uploaded file.
// One entry per file name; entries are never removed.
type ProcessingStatus struct {
	FileName        string          `bson:"file_name" json:"fileName"`
	Status          ProcessingState `bson:"status" json:"status"`
	Attempt         int             `bson:"attempt" json:"attempt"`
	StartedAt       *time.Time      `bson:"started_at,omitempty" json:"startedAt,omitempty"`
	CompletedAt     *time.Time      `bson:"completed_at,omitempty" json:"completedAt,omitempty"`
	FailedAt        *time.Time      `bson:"failed_at,omitempty" json:"failedAt,omitempty"`
	Error           string          `bson:"error,omitempty" json:"error,omitempty"`
	WatermarkedPath string          `bson:"watermarked_path,omitempty" json:"watermarkedPath,omitempty"`
}

type Album struct {
	ID                string             `bson:"_id" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Location          string             `bson:"location,omitempty" json:"location,omitempty"`
	EventDate         time.Time          `bson:"event_date,omitempty" json:"eventDate,omitempty"`
	CreatedAt         time.Time          `bson:"created_at" json:"createdAt"`
	Author            Author             `bson:"author" json:"author"`
	IsPublic          bool               `bson:"is_public" json:"isPublic"`
	IsCommercial      bool               `bson:"is_commercial" json:"isCommercial"`
	Folders           Folders            `bson:"folders" json:"folders"`
	WatermarkSettings WatermarkSettings  `bson:"watermark_settings" json:"watermarkSettings"`
	Photos            []PhotoEntry       `bson:"photos" json:"photos"`
	ProcessingStatus  []ProcessingStatus `bson:"processing_status" json:"processingStatus"`
}

// StatusFor returns the processing entry for a file name, if one exists.
func (a *Album) StatusFor(fileName string) (ProcessingStatus, bool) {
	for _, s := range a.ProcessingStatus {
		if s.FileName == fileName {
			return s, true
		}
	}
	return ProcessingStatus{}, false
}

// PhotoRecord is the denormalized entry written to the secondary photos
// collection. Best-effort, not the source of truth.
type PhotoRecord struct {
	ID              string    `bson:"_id" json:"id"`
	AlbumID         string    `bson:"album_id" json:"albumId"`
	FileName        string    `bson:"file_name" json:"fileName"`
	OriginalPath    string    `bson:"original_path" json:"originalPath"`
	WatermarkedPath string    `bson:"watermarked_path" json:"watermarkedPath"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

const (
	DefaultWatermarkText    = "© Photo Gallery"
	DefaultWatermarkOpacity = 0.3
	HiddenWatermarkOpacity  = 0.05
	DefaultFontColor        = "255,255,255"

	// Font size for text overlays defaults to this fraction of the photo height.
	DefaultFontHeightRatio = 0.05

	// Image overlays are scaled to this fraction of the photo width.
	ImageWatermarkScale = 0.35

	DefaultJPEGQuality   = 90
	DefaultMaxUploadSize = 32 << 20
)
