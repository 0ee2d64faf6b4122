package kafka

import (
	"Autopost/internal/api/config"
	"Autopost/internal/model"
	"context"
	"fmt"
	log "log/slog"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// EventProducer 把帖子生命周期事件写入 Kafka，key 为帖子 ID 保证同一帖子有序
type EventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewEventProducer(cfg *config.Config) (*EventProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewEventProducerWith(producer, cfg.KafkaEventProducer.Topic), nil
}

// NewEventProducerWith 使用现成的 SyncProducer
func NewEventProducerWith(producer sarama.SyncProducer, topic string) *EventProducer {
	return &EventProducer{producer: producer, topic: topic}
}

func (p *EventProducer) Emit(ctx context.Context, event model.PostEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatUint(event.PostID, 10)),
		Value: sarama.ByteEncoder(value),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		log.ErrorContext(ctx, "send post event failed", "post_id", event.PostID, "to", event.To, "err", err)
		return err
	}
	log.InfoContext(ctx, "post event sent", "post_id", event.PostID, "to", event.To, "partition", partition, "offset", offset)
	return nil
}

func (p *EventProducer) Close() error {
	return p.producer.Close()
}
