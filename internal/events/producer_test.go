package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/google/uuid"

	"github.com/banking/merchant-firewall/internal/config"
	"github.com/banking/merchant-firewall/internal/domain"
	"github.com/banking/merchant-firewall/internal/pkg/logger"
)

func TestNewProducerDisabledWithoutBrokers(t *testing.T) {
	p, err := NewProducer(&config.KafkaConfig{}, logger.NewNop())
	if err != nil {
		t.Fatalf("NewProducer: %v", err)
	}
	if p != nil {
		t.Error("expected nil producer when no brokers configured")
	}
}

func TestPublishScore(t *testing.T) {
	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	mock := mocks.NewSyncProducer(t, sc)

	mock.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "firewall.transaction.scores" {
			t.Errorf("topic = %q", msg.Topic)
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var score domain.TransactionScore
		if err := json.Unmarshal(raw, &score); err != nil {
			return err
		}
		if score.MerchantID != "mer_1" {
			t.Errorf("merchant_id = %q", score.MerchantID)
		}
		return nil
	})

	p := &Producer{producer: mock, topic: "firewall.transaction.scores", log: logger.NewNop()}
	err := p.PublishScore(context.Background(), &domain.TransactionScore{
		ID:         uuid.New(),
		MerchantID: "mer_1",
		Decision:   domain.DecisionAllow,
		Reasons:    []string{"No high-risk signal detected."},
	})
	if err != nil {
		t.Fatalf("PublishScore: %v", err)
	}

	if err := mock.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
