package watermark

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"photo-gallery/internal/domain"
	"photo-gallery/internal/http-server/handler/watermark/dto"
	watermark_uc "photo-gallery/internal/usecase/watermark"

	"github.com/wb-go/wbf/zlog"
)

type stubUsecase struct {
	processCalls int
	processReq   watermark_uc.ProcessRequest
	processRes   *watermark_uc.ProcessResult
	processErr   error

	retryRes *watermark_uc.ProcessResult
	retryErr error
}

func (s *stubUsecase) Process(_ context.Context, req watermark_uc.ProcessRequest) (*watermark_uc.ProcessResult, error) {
	s.processCalls++
	s.processReq = req
	return s.processRes, s.processErr
}

func (s *stubUsecase) Retry(_ context.Context, albumID, fileName string) (*watermark_uc.ProcessResult, error) {
	return s.retryRes, s.retryErr
}

func newTestHandler(uc *stubUsecase) *WatermarkHandler {
	zlog.Init()
	return NewWatermarkHandler(uc, &zlog.Logger)
}

func postJSON(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/watermark/process", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestProcessSuccess(t *testing.T) {
	uc := &stubUsecase{
		processRes: &watermark_uc.ProcessResult{
			FileName:       "sunset.jpg",
			AlbumID:        "a1",
			Status:         domain.ResultCompleted,
			OriginalURL:    "http://s/o",
			WatermarkedURL: "http://s/w",
		},
	}
	h := newTestHandler(uc)

	body := `{
		"filePath": "albums/a1/photo-original/sunset.jpg",
		"albumId": "a1",
		"watermarkSettings": {"enabled": true, "type": "text"}
	}`
	rec := postJSON(t, h.Process, body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp dto.ProcessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data.Status != domain.ResultCompleted {
		t.Errorf("response = %+v", resp)
	}
	if resp.Data.URLs.Watermarked != "http://s/w" {
		t.Errorf("watermarked url = %q", resp.Data.URLs.Watermarked)
	}

	if uc.processReq.AlbumID != "a1" || !uc.processReq.Settings.Enabled {
		t.Errorf("usecase request = %+v", uc.processReq)
	}
}

func TestProcessMissingFields(t *testing.T) {
	uc := &stubUsecase{}
	h := newTestHandler(uc)

	rec := postJSON(t, h.Process, `{"filePath": "albums/a1/photo-original/x.jpg"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "MISSING_FIELDS" {
		t.Errorf("code = %q, want MISSING_FIELDS", resp.Code)
	}

	// Validation failures stop before the pipeline runs.
	if uc.processCalls != 0 {
		t.Errorf("usecase called %d times, want 0", uc.processCalls)
	}
}

func TestProcessInvalidBody(t *testing.T) {
	h := newTestHandler(&stubUsecase{})

	rec := postJSON(t, h.Process, `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestProcessErrorMapping(t *testing.T) {
	validBody := `{
		"filePath": "albums/a1/photo-original/x.jpg",
		"albumId": "a1",
		"watermarkSettings": {"enabled": true, "type": "text"}
	}`

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"invalid path", watermark_uc.ErrNotOriginalPath, http.StatusBadRequest, "INVALID_PATH"},
		{"invalid type", watermark_uc.ErrInvalidWatermarkType, http.StatusBadRequest, "INVALID_TYPE"},
		{"conflict", watermark_uc.ErrProcessingConflict, http.StatusConflict, "PROCESSING_CONFLICT"},
		{"album missing", watermark_uc.ErrAlbumNotFound, http.StatusInternalServerError, "ALBUM_NOT_FOUND"},
		{"overlay missing", watermark_uc.ErrWatermarkImageNotFound, http.StatusInternalServerError, "WATERMARK_IMAGE_NOT_FOUND"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(&stubUsecase{processErr: tc.err})

			rec := postJSON(t, h.Process, validBody)

			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			var resp dto.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if resp.Code != tc.wantBody {
				t.Errorf("code = %q, want %q", resp.Code, tc.wantBody)
			}
		})
	}
}

func TestRetrySuccess(t *testing.T) {
	uc := &stubUsecase{
		retryRes: &watermark_uc.ProcessResult{
			FileName: "x.jpg",
			AlbumID:  "a1",
			Status:   domain.ResultCompleted,
		},
	}
	h := newTestHandler(uc)

	rec := postJSON(t, h.Retry, `{"albumId": "a1", "fileName": "x.jpg"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp dto.RetryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Errorf("response = %+v", resp)
	}
}

func TestRetryOriginalMissing(t *testing.T) {
	h := newTestHandler(&stubUsecase{retryErr: watermark_uc.ErrOriginalNotFound})

	rec := postJSON(t, h.Retry, `{"albumId": "a1", "fileName": "gone.jpg"}`)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "ORIGINAL_NOT_FOUND" {
		t.Errorf("code = %q, want ORIGINAL_NOT_FOUND", resp.Code)
	}
}

func TestRetryMissingFields(t *testing.T) {
	h := newTestHandler(&stubUsecase{})

	rec := postJSON(t, h.Retry, `{"albumId": "a1"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
