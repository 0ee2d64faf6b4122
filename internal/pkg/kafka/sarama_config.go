package kafka

import (
	"Autopost/internal/api/config"
	"time"

	"github.com/IBM/sarama"
)

const clientID = "autopost"

func baseSaramaConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := sarama.NewConfig()
	c.ClientID = clientID
	if kafkaCfg.Sasl.Enable {
		c.Net.SASL.Enable = true
		c.Net.SASL.Mechanism = sarama.SASLTypePlaintext
		c.Net.SASL.User = kafkaCfg.Sasl.Username
		c.Net.SASL.Password = kafkaCfg.Sasl.Password
	}
	return c
}

// newProducerConfig 同步生产者，按 key 哈希分区
func newProducerConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := baseSaramaConfig(kafkaCfg)
	c.Producer.Return.Successes = true
	c.Producer.Return.Errors = true
	c.Producer.RequiredAcks = sarama.WaitForLocal
	c.Producer.Partitioner = sarama.NewHashPartitioner
	c.Producer.Timeout = 5 * time.Second
	c.Producer.Retry.Max = 0
	return c
}

// newConsumerConfig 手动提交位移，由 processBatch 统一 Commit
func newConsumerConfig(kafkaCfg config.KafkaConfig) *sarama.Config {
	c := baseSaramaConfig(kafkaCfg)
	c.Consumer.Return.Errors = true
	c.Consumer.Offsets.Initial = sarama.OffsetNewest
	c.Consumer.Offsets.AutoCommit.Enable = false

	if kafkaCfg.Consumer.SessionTimeout > 0 {
		c.Consumer.Group.Session.Timeout = time.Duration(kafkaCfg.Consumer.SessionTimeout) * time.Second
	}
	if kafkaCfg.Consumer.HeartbeatInterval > 0 {
		c.Consumer.Group.Heartbeat.Interval = time.Duration(kafkaCfg.Consumer.HeartbeatInterval) * time.Second
	}
	if kafkaCfg.Consumer.RebalanceTimeout > 0 {
		c.Consumer.Group.Rebalance.Timeout = time.Duration(kafkaCfg.Consumer.RebalanceTimeout) * time.Second
	}
	return c
}
