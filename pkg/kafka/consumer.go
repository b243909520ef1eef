package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"github.com/thep200/asset-price-crawler/cfg"
	"github.com/thep200/asset-price-crawler/pkg/log"
)

// Consumer đọc các bản ghi giá từ Kafka để ghi xuống storage
type Consumer struct {
	Config *cfg.Config
	Logger log.Logger
	reader *kafka.Reader
}

func NewConsumer(config *cfg.Config, logger log.Logger, topic string) (*Consumer, error) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  config.Kafka.Brokers,
		Topic:    topic,
		GroupID:  config.Kafka.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Consumer{
		Config: config,
		Logger: logger,
		reader: reader,
	}, nil
}

// Fetch đọc một message, caller phải gọi Commit sau khi xử lý xong
func (c *Consumer) Fetch(ctx context.Context) (kafka.Message, error) {
	return c.reader.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, msgs ...kafka.Message) error {
	return c.reader.CommitMessages(ctx, msgs...)
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
