package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"photo-gallery/internal/domain"

	"github.com/wb-go/wbf/retry"
)

// JobPublisher serializes watermark jobs onto the jobs topic, keyed by album
// so one album's files stay ordered per partition.
type JobPublisher struct {
	producer Producer
	strategy retry.Strategy
}

func NewJobPublisher(producer Producer, strategy retry.Strategy) *JobPublisher {
	return &JobPublisher{producer: producer, strategy: strategy}
}

func (p *JobPublisher) SendJob(ctx context.Context, job *domain.WatermarkJob) error {
	value, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return p.producer.Send(ctx, p.strategy, []byte(job.AlbumID), value)
}

type ResultPublisher struct {
	producer Producer
	strategy retry.Strategy
}

func NewResultPublisher(producer Producer, strategy retry.Strategy) *ResultPublisher {
	return &ResultPublisher{producer: producer, strategy: strategy}
}

func (p *ResultPublisher) SendResult(ctx context.Context, result *domain.WatermarkResult) error {
	value, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return p.producer.Send(ctx, p.strategy, []byte(result.AlbumID), value)
}
