package kafka

import (
	"Autopost/internal/api/config"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

const consumeRetryInterval = 500 * time.Millisecond

// ConsumerManager 管理 Kafka 消费者
type ConsumerManager struct {
	analyticsConsumer sarama.ConsumerGroup
	analyticsHandler  sarama.ConsumerGroupHandler
	analyticsTopic    string
}

// NewConsumerManager 构造函数
func NewConsumerManager(cfg *config.Config, posts PostLookup, snapshots SnapshotWriter) (*ConsumerManager, error) {
	saramaCfg := newConsumerConfig(cfg.Kafka)

	analyticsConsumer, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaAnalyticsConsumer.GroupID, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &ConsumerManager{
		analyticsConsumer: analyticsConsumer,
		analyticsHandler:  NewAnalyticsHandler(posts, snapshots),
		analyticsTopic:    cfg.KafkaAnalyticsConsumer.Topic,
	}, nil
}

// Start 阻塞运行直到 ctx 结束
func (m *ConsumerManager) Start(ctx context.Context) error {
	go func() {
		log.Info("Analytics consumer started", "topic", m.analyticsTopic)
		consumeLoop(ctx, func(ctx context.Context) error {
			return m.analyticsConsumer.Consume(ctx, []string{m.analyticsTopic}, m.analyticsHandler)
		}, consumeRetryInterval)
	}()

	<-ctx.Done()
	log.Info("Kafka Manager shutting down...")

	if err := m.analyticsConsumer.Close(); err != nil {
		log.Error("Failed to close analytics consumer", "err", err)
	}
	return nil
}

// consumeLoop rebalance 后重新加入消费组；出错时指数退避，上限 maxBackoff
func consumeLoop(ctx context.Context, consume func(ctx context.Context) error, initial time.Duration) {
	backoff := initial
	for {
		err := consume(ctx)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			backoff = initial
			continue
		}

		log.Error("Error from consumer", "err", err, "retry_in", backoff)
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = nextBackoff(backoff)
	}
}
