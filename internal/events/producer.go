// Package events publishes scoring outcomes to the bank's event stream.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/banking/merchant-firewall/internal/config"
	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

// Producer publishes transaction score events to Kafka. Publishing is
// best-effort: downstream consumers enrich dashboards and alerting, they
// are not part of the scoring decision.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
	log      *logger.Logger
}

// NewProducer connects a synchronous producer. Returns nil without error
// when no brokers are configured, which disables publishing.
func NewProducer(cfg *config.KafkaConfig, log *logger.Logger) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.RequiredAcks = sarama.WaitForLocal

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("connect kafka: %w", err)
	}

	return &Producer{
		producer: producer,
		topic:    cfg.ScoresTopic,
		log:      log.Named("events"),
	}, nil
}

// PublishScore sends one score event keyed by merchant ID so all events
// for a merchant land on the same partition.
func (p *Producer) PublishScore(_ context.Context, score *domain.TransactionScore) error {
	payload, err := json.Marshal(score)
	if err != nil {
		return fmt.Errorf("encode score event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(score.MerchantID),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("publish score event: %w", err)
	}

	p.log.ScoreEventPublished(score.MerchantID, partition, offset)
	return nil
}

// Close shuts down the underlying producer
func (p *Producer) Close() error {
	return p.producer.Close()
}
