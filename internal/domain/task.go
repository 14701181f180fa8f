package domain

// WatermarkJob is the message published to the jobs topic when an upload
// needs processing. The settings snapshot is taken from the album at publish
// time; the worker does not re-resolve them.
type WatermarkJob struct {
	ID       string            `json:"id"`
	AlbumID  string            `json:"album_id"`
	FilePath string            `json:"file_path"`
	Settings WatermarkSettings `json:"settings"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// WatermarkResult is published to the results topic after a job finishes,
// best-effort. Consumers use it for cache invalidation and UI refresh.
type WatermarkResult struct {
	ID              string `json:"id"`
	AlbumID         string `json:"album_id"`
	FileName        string `json:"file_name"`
	Status          string `json:"status"`
	WatermarkedPath string `json:"watermarked_path,omitempty"`
	Error           string `json:"error,omitempty"`
}

const (
	ResultCompleted = "completed"
	ResultSkipped   = "skipped"
	ResultError     = "error"
)
