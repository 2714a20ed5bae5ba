package decisionlog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"consentry/internal/consent/metrics"
	"consentry/internal/consent/models"
	id "consentry/pkg/domain"
	"consentry/pkg/testutil"
)

type PublisherSuite struct {
	suite.Suite
	store  *InMemoryStore
	logger *slog.Logger
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *PublisherSuite) entry(action models.Action) models.DecisionLogEntry {
	return models.DecisionLogEntry{
		ID:        id.NewDecisionID(),
		WebsiteID: testutil.TestWebsiteID,
		Action:    action,
		Record:    `[{"slug":"analytics","status":true}]`,
		CreatedAt: time.Now(),
	}
}

func (s *PublisherSuite) TestSyncEmitPersistsAndFansOut() {
	sink := &recordingSink{}
	p := NewPublisher(s.store, WithSink(sink), WithSink(nil), WithPublisherLogger(s.logger))

	s.Require().NoError(p.Emit(context.Background(), s.entry(models.ActionAcceptAll)))

	s.Equal(1, s.store.Len())
	s.Len(sink.entries(), 1)
}

func (s *PublisherSuite) TestSyncEmitReturnsStoreError() {
	sink := &recordingSink{}
	p := NewPublisher(failingStore{}, WithSink(sink), WithPublisherLogger(s.logger))

	err := p.Emit(context.Background(), s.entry(models.ActionSave))
	s.Require().Error(err)
	s.Empty(sink.entries(), "sinks only see persisted entries")
}

func (s *PublisherSuite) TestSinkFailureDoesNotFailEmit() {
	p := NewPublisher(s.store, WithSink(&recordingSink{err: errors.New("broker down")}), WithPublisherLogger(s.logger))

	s.Require().NoError(p.Emit(context.Background(), s.entry(models.ActionRejectAll)))
	s.Equal(1, s.store.Len())
}

func (s *PublisherSuite) TestAsyncCloseDrainsQueue() {
	p := NewPublisher(s.store, WithAsyncBuffer(16), WithPublisherLogger(s.logger))
	for range 10 {
		s.Require().NoError(p.Emit(context.Background(), s.entry(models.ActionSave)))
	}
	p.Close()
	p.Close()

	s.Equal(10, s.store.Len())
}

func (s *PublisherSuite) TestAsyncDropsWhenBufferFull() {
	m := metrics.New(prometheus.NewRegistry())
	blocking := newBlockingStore()
	p := NewPublisher(blocking, WithAsyncBuffer(1), WithPublisherLogger(s.logger), WithPublisherMetrics(m))

	s.Require().NoError(p.Emit(context.Background(), s.entry(models.ActionSave)))
	<-blocking.entered // worker holds the first entry
	s.Require().NoError(p.Emit(context.Background(), s.entry(models.ActionSave)))
	s.Require().NoError(p.Emit(context.Background(), s.entry(models.ActionSave)))

	s.Equal(1.0, promtest.ToFloat64(m.DecisionLogDropped))

	close(blocking.release)
	p.Close()
	s.Equal(2, blocking.count())
}

func TestInMemoryStoreDeleteBefore(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	other := id.NewWebsiteID()

	for i, created := range []time.Time{now.AddDate(-4, 0, 0), now.AddDate(-3, 0, 0), now.AddDate(0, -1, 0)} {
		website := testutil.TestWebsiteID
		if i == 1 {
			website = other
		}
		require.NoError(t, store.Append(ctx, models.DecisionLogEntry{ID: id.NewDecisionID(), WebsiteID: website, CreatedAt: created}))
	}

	deleted, err := store.DeleteBefore(ctx, now.AddDate(-3, 0, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted, "cutoff itself is kept")

	entries, err := store.ListByWebsite(ctx, testutil.TestWebsiteID, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, now.AddDate(0, -1, 0), entries[0].CreatedAt)

	entries, err = store.ListByWebsite(ctx, other, 1)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

type recordingSink struct {
	mu   sync.Mutex
	seen []models.DecisionLogEntry
	err  error
}

func (r *recordingSink) Publish(_ context.Context, e models.DecisionLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, e)
	return r.err
}

func (r *recordingSink) entries() []models.DecisionLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.DecisionLogEntry(nil), r.seen...)
}

type failingStore struct{}

func (failingStore) Append(context.Context, models.DecisionLogEntry) error {
	return errors.New("db down")
}

func (failingStore) ListByWebsite(context.Context, id.WebsiteID, int) ([]models.DecisionLogEntry, error) {
	return nil, nil
}

func (failingStore) DeleteBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type blockingStore struct {
	*InMemoryStore
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingStore() *blockingStore {
	return &blockingStore{
		InMemoryStore: NewInMemoryStore(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
}

func (b *blockingStore) Append(ctx context.Context, e models.DecisionLogEntry) error {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return b.InMemoryStore.Append(ctx, e)
}

func (b *blockingStore) count() int { return b.Len() }
