// Package kafka publishes audit events to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"stableford/internal/audit"
	"stableford/internal/platform/config"
)

// producer is the slice of *kgo.Client the sink needs.
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// AuditSink implements audit.Store by writing each event as one record keyed
// by player so a player's events stay ordered within a partition.
type AuditSink struct {
	producer producer
	topic    string
}

func NewAuditSink(p producer, topic string) *AuditSink {
	return &AuditSink{producer: p, topic: topic}
}

// message is the wire payload consumers read.
type message struct {
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
	PlayerID  string    `json:"player_id,omitempty"`
	ActorID   string    `json:"actor_id,omitempty"`
	Subject   string    `json:"subject"`
	Action    string    `json:"action"`
	Reason    string    `json:"reason,omitempty"`
}

func (s *AuditSink) Append(ctx context.Context, event audit.Event) error {
	msg := message{
		Category:  string(event.Category),
		Timestamp: event.Timestamp.UTC(),
		ActorID:   event.ActorID,
		Subject:   event.Subject,
		Action:    event.Action,
		Reason:    event.Reason,
	}
	var key []byte
	if !event.PlayerID.IsNil() {
		msg.PlayerID = event.PlayerID.String()
		key = []byte(msg.PlayerID)
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   key,
		Value: payload,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(msg.Category)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// NewClient connects a producer to the configured brokers.
func NewClient(ctx context.Context, cfg config.KafkaConfig) (*kgo.Client, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.AuditTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("kafka ping failed: %w", err)
	}
	return client, nil
}

// EnsureTopic creates the audit topic when it does not exist yet.
func EnsureTopic(ctx context.Context, client *kgo.Client, cfg config.KafkaConfig) error {
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, cfg.Partitions, cfg.Replication, nil, cfg.AuditTopic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}
