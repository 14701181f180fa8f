package kafka

import (
	"context"
	"errors"

	"photo-gallery/internal/config"

	"github.com/segmentio/kafka-go"
	"github.com/wb-go/wbf/retry"
)

// KafkaClient bundles the worker's side of the pipeline: consuming watermark
// jobs and publishing results.
type KafkaClient struct {
	resultsProducer *ProducerClient
	jobsConsumer    *consumerClient
}

func NewKafkaClient(cfg *config.Config) *KafkaClient {
	return &KafkaClient{
		resultsProducer: NewProducerClient(cfg.Kafka.Brokers, cfg.Kafka.ResultsTopic),
		jobsConsumer:    NewConsumerClient(cfg.Kafka.Brokers, cfg.Kafka.JobsTopic, cfg.Kafka.GroupID),
	}
}

func (k *KafkaClient) Send(ctx context.Context, strategy retry.Strategy, key, value []byte) error {
	return k.resultsProducer.Send(ctx, strategy, key, value)
}

func (k *KafkaClient) Fetch(ctx context.Context, strategy retry.Strategy) (kafka.Message, error) {
	return k.jobsConsumer.Fetch(ctx, strategy)
}

func (k *KafkaClient) Commit(ctx context.Context, msg kafka.Message) error {
	return k.jobsConsumer.Commit(ctx, msg)
}

func (k *KafkaClient) StartConsuming(ctx context.Context, out chan<- kafka.Message, strategy retry.Strategy) {
	k.jobsConsumer.StartConsuming(ctx, out, strategy)
}

func (k *KafkaClient) Close() error {
	var errs []error

	if k.resultsProducer != nil {
		if err := k.resultsProducer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if k.jobsConsumer != nil {
		if err := k.jobsConsumer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
