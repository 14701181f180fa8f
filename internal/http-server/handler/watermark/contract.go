package watermark

import (
	"context"

	watermark_uc "photo-gallery/internal/usecase/watermark"
)

type watermarkUsecase interface {
	Process(ctx context.Context, req watermark_uc.ProcessRequest) (*watermark_uc.ProcessResult, error)
	Retry(ctx context.Context, albumID, fileName string) (*watermark_uc.ProcessResult, error)
}
