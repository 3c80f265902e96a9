// Package events publishes alert events for downstream consumers (case
// management, notification fan-out). Kafka is the transport; deployments
// without a broker get a no-op publisher.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/turtacn/jalak-hijau/internal/config"
	"github.com/turtacn/jalak-hijau/internal/domain/models"
	"github.com/turtacn/jalak-hijau/internal/domain/repository"
	"github.com/turtacn/jalak-hijau/internal/infrastructure/monitoring"
	"github.com/turtacn/jalak-hijau/pkg/errors"
	"github.com/turtacn/jalak-hijau/pkg/logger"
)

// KafkaAlertPublisher implements AlertPublisher on a Kafka topic. Messages are
// keyed by company so all alerts for one company land in the same partition.
type KafkaAlertPublisher struct {
	writer  *kafka.Writer
	logger  logger.Logger
	metrics *monitoring.Metrics
}

var _ repository.AlertPublisher = (*KafkaAlertPublisher)(nil)

// NewKafkaAlertPublisher creates a publisher for the configured topic.
func NewKafkaAlertPublisher(cfg *config.KafkaConfig, log logger.Logger, metrics *monitoring.Metrics) *KafkaAlertPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &KafkaAlertPublisher{
		writer:  writer,
		logger:  log.WithComponent("alert-publisher"),
		metrics: metrics,
	}
}

// Publish sends one alert event.
func (p *KafkaAlertPublisher) Publish(ctx context.Context, alert models.Alert) error {
	payload, err := json.Marshal(alert)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode alert")
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(alert.Company),
		Value: payload,
		Time:  alert.Time,
	})
	if err != nil {
		if p.metrics != nil {
			p.metrics.RecordAlertPublished(string(alert.Type), "error")
		}
		p.logger.Error(ctx, "failed to publish alert", err, logger.Fields{
			"alert_id": alert.ID,
			"company":  alert.Company,
		})
		return errors.Wrap(err, errors.CodeUnavailable, "failed to publish alert")
	}

	if p.metrics != nil {
		p.metrics.RecordAlertPublished(string(alert.Type), "ok")
	}
	return nil
}

// Close flushes pending messages and releases the writer.
func (p *KafkaAlertPublisher) Close() error {
	return p.writer.Close()
}

// NoopAlertPublisher discards alerts. Used when Kafka is disabled.
type NoopAlertPublisher struct{}

var _ repository.AlertPublisher = (*NoopAlertPublisher)(nil)

// NewNoopAlertPublisher creates a publisher that drops everything.
func NewNoopAlertPublisher() *NoopAlertPublisher {
	return &NoopAlertPublisher{}
}

func (p *NoopAlertPublisher) Publish(ctx context.Context, alert models.Alert) error { return nil }
func (p *NoopAlertPublisher) Close() error                                          { return nil }
