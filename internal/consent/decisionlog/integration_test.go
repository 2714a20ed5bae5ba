//go:build integration

package decisionlog_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"consentry/internal/consent/decisionlog"
	"consentry/internal/consent/models"
	"consentry/internal/platform/config"
	"consentry/internal/platform/kafka/producer"
	id "consentry/pkg/domain"
	"consentry/pkg/testutil/containers"
)

type DecisionLogIntegrationSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	kafka     *containers.KafkaContainer
	store     *decisionlog.PostgresStore
	websiteID id.WebsiteID
}

func TestDecisionLogIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(DecisionLogIntegrationSuite))
}

func (s *DecisionLogIntegrationSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.kafka = containers.GetManager().GetKafka(s.T())
	s.store = decisionlog.NewPostgresStore(s.postgres.DB)
}

func (s *DecisionLogIntegrationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateAll(ctx))
	s.websiteID = s.postgres.CreateTestWebsite(ctx, s.T(), "acme")
}

func (s *DecisionLogIntegrationSuite) entry(created time.Time) models.DecisionLogEntry {
	return models.DecisionLogEntry{
		ID:             id.NewDecisionID(),
		WebsiteID:      s.websiteID,
		Action:         models.ActionSave,
		Record:         `[{"slug":"analytics","status":false}]`,
		HaveDenied:     true,
		ClientIPPrefix: "203.0.113.0",
		UserAgent:      "firefox 128/linux/desktop",
		Locale:         "en",
		CreatedAt:      created.UTC().Truncate(time.Microsecond),
	}
}

func (s *DecisionLogIntegrationSuite) TestAppendListAndPurge() {
	ctx := context.Background()
	now := time.Now()
	old := s.entry(now.AddDate(-4, 0, 0))
	fresh := s.entry(now)
	s.Require().NoError(s.store.Append(ctx, old))
	s.Require().NoError(s.store.Append(ctx, fresh))

	entries, err := s.store.ListByWebsite(ctx, s.websiteID, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(fresh.ID, entries[0].ID)
	s.Equal(fresh.UserAgent, entries[0].UserAgent)
	s.True(entries[0].CreatedAt.Equal(fresh.CreatedAt))

	deleted, err := s.store.DeleteBefore(ctx, now.AddDate(-3, 0, 0))
	s.Require().NoError(err)
	s.Equal(int64(1), deleted)

	entries, err = s.store.ListByWebsite(ctx, s.websiteID, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(fresh.ID, entries[0].ID)
}

func (s *DecisionLogIntegrationSuite) TestPublisherFansOutToKafka() {
	ctx := context.Background()
	topic := "consent.decisions.it"
	s.Require().NoError(s.kafka.CreateTopic(ctx, topic, 1))

	prod, err := producer.New(config.KafkaConfig{
		Brokers:         s.kafka.Brokers,
		Topic:           topic,
		Acks:            "all",
		Retries:         3,
		DeliveryTimeout: 10 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(err)
	defer prod.Close()

	publisher := decisionlog.NewPublisher(s.store, decisionlog.WithSink(decisionlog.NewKafkaSink(prod, topic)))
	entry := s.entry(time.Now())
	s.Require().NoError(publisher.Emit(ctx, entry))

	record, err := s.kafka.ConsumeOne(ctx, topic, 30*time.Second, func(r *kgo.Record) bool {
		return string(r.Key) == s.websiteID.String()
	})
	s.Require().NoError(err)

	var got models.DecisionLogEntry
	s.Require().NoError(json.Unmarshal(record.Value, &got))
	s.Equal(entry.ID, got.ID)
	s.Equal(models.ActionSave, got.Action)
}
