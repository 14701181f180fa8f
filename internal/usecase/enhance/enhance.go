package enhance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"photo-gallery/internal/usecase/processor/operations"

	"github.com/disintegration/imaging"
	"github.com/wb-go/wbf/zlog"
)

var (
	ErrNotReady      = errors.New("enhancer is not ready")
	ErrUpstreamFetch = errors.New("failed to fetch source image")
)

// Enhancer is an explicitly constructed and explicitly disposed resource
// handle. The filter chain itself is cheap, but the handle keeps the
// lifecycle (NewFilterEnhancer / Ready / Close) that a model-backed
// implementation would need, so callers never depend on process-wide state.
type Enhancer interface {
	Ready() bool
	Enhance(ctx context.Context, imageURL string) ([]byte, error)
	Close() error
}

// FilterEnhancer improves photos with a deterministic sharpening and
// color-adjustment chain.
type FilterEnhancer struct {
	client *http.Client
	ready  atomic.Bool
	logger *zlog.Zerolog
}

func NewFilterEnhancer(client *http.Client, logger *zlog.Zerolog) *FilterEnhancer {
	if client == nil {
		client = http.DefaultClient
	}
	e := &FilterEnhancer{
		client: client,
		logger: logger,
	}
	e.ready.Store(true)
	return e
}

func (e *FilterEnhancer) Ready() bool {
	return e.ready.Load()
}

// Close is safe to call while requests are in flight.
func (e *FilterEnhancer) Close() error {
	e.ready.Store(false)
	e.client.CloseIdleConnections()
	return nil
}

func (e *FilterEnhancer) Enhance(ctx context.Context, imageURL string) ([]byte, error) {
	if !e.ready.Load() {
		return nil, ErrNotReady
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image url: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamFetch, resp.StatusCode)
	}

	img, err := operations.Decode(resp.Body)
	if err != nil {
		return nil, err
	}

	enhanced := imaging.Sharpen(
		imaging.AdjustContrast(
			imaging.AdjustSaturation(img, 12), 6), 0.5)

	out, err := operations.EncodeJPEG(enhanced)
	if err != nil {
		return nil, err
	}

	e.logger.Info().
		Str("image_url", imageURL).
		Int("size", len(out)).
		Msg("Image enhanced")
	return out, nil
}
