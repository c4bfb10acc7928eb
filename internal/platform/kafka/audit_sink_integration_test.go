//go:build integration

package kafka_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"stableford/internal/audit"
	"stableford/internal/platform/config"
	"stableford/internal/platform/kafka"
	id "stableford/pkg/domain"
	"stableford/pkg/testutil/containers"
)

type AuditSinkSuite struct {
	suite.Suite
	kafka  *containers.KafkaContainer
	cfg    config.KafkaConfig
	client *kgo.Client
}

func TestAuditSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(AuditSinkSuite))
}

func (s *AuditSinkSuite) SetupSuite() {
	ctx := context.Background()
	s.kafka = containers.GetManager().GetKafka(s.T())
	s.cfg = config.KafkaConfig{
		Brokers:     s.kafka.Brokers,
		AuditTopic:  "stableford.audit.test",
		Partitions:  1,
		Replication: 1,
	}
	client, err := kafka.NewClient(ctx, s.cfg)
	s.Require().NoError(err)
	s.client = client
}

func (s *AuditSinkSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *AuditSinkSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	s.Require().NoError(kafka.EnsureTopic(ctx, s.client, s.cfg))
	s.NoError(kafka.EnsureTopic(ctx, s.client, s.cfg))
}

func (s *AuditSinkSuite) TestAppendPublishesKeyedEvent() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	s.Require().NoError(kafka.EnsureTopic(ctx, s.client, s.cfg))

	playerID := id.NewPlayerID()
	sink := kafka.NewAuditSink(s.client, s.cfg.AuditTopic)
	err := audit.NewPublisher(sink).Emit(ctx, audit.Event{
		PlayerID: playerID,
		Subject:  playerID.String(),
		Action:   string(audit.EventHandicapInserted),
	})
	s.Require().NoError(err)

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.cfg.Brokers...),
		kgo.ConsumeTopics(s.cfg.AuditTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	for {
		fetches := consumer.PollFetches(ctx)
		s.Require().NoError(ctx.Err(), "no audit record arrived")
		var found *kgo.Record
		fetches.EachRecord(func(r *kgo.Record) {
			if string(r.Key) == playerID.String() {
				found = r
			}
		})
		if found == nil {
			continue
		}
		var payload map[string]any
		s.Require().NoError(json.Unmarshal(found.Value, &payload))
		s.Equal(string(audit.EventHandicapInserted), payload["action"])
		s.Equal(string(audit.CategoryRecord), payload["category"])
		s.Require().Len(found.Headers, 1)
		s.Equal("record", string(found.Headers[0].Value))
		return
	}
}
