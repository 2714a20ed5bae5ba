package decisionlog

import (
	"context"
	"log/slog"
	"sync"

	"consentry/internal/consent/metrics"
	"consentry/internal/consent/models"
)

// Publisher records decision log entries in the store and fans them out to sinks.
type Publisher struct {
	store   Store
	sinks   []Sink
	events  chan models.DecisionLogEntry
	wg      sync.WaitGroup
	logger  *slog.Logger
	metrics *metrics.Metrics
	async   bool
	closed  sync.Once
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer queues entries and persists them in a background goroutine.
// Entries are dropped, not blocked on, when the buffer is full.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.events = make(chan models.DecisionLogEntry, size)
			p.async = true
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithPublisherMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithSink adds a fan-out destination. Nil sinks are ignored.
func WithSink(sink Sink) PublisherOption {
	return func(p *Publisher) {
		if sink != nil {
			p.sinks = append(p.sinks, sink)
		}
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.async {
		p.wg.Add(1)
		go p.process()
	}
	return p
}

func (p *Publisher) process() {
	defer p.wg.Done()
	for entry := range p.events {
		_ = p.persist(context.Background(), entry)
	}
}

// Close drains queued entries. Emit must not be called afterwards.
func (p *Publisher) Close() {
	p.closed.Do(func() {
		if p.async {
			close(p.events)
			p.wg.Wait()
		}
	})
}

// Emit records entry. In synchronous mode store errors are returned; sink
// errors are only logged.
func (p *Publisher) Emit(ctx context.Context, entry models.DecisionLogEntry) error {
	if p.async {
		select {
		case p.events <- entry:
		default:
			p.logger.WarnContext(ctx, "decision log buffer full, entry dropped",
				"action", entry.Action,
				"website_id", entry.WebsiteID.String(),
			)
			p.metrics.IncDecisionLogDropped()
		}
		return nil
	}
	return p.persist(ctx, entry)
}

func (p *Publisher) persist(ctx context.Context, entry models.DecisionLogEntry) error {
	if err := p.store.Append(ctx, entry); err != nil {
		p.logger.ErrorContext(ctx, "failed to persist decision log entry",
			"error", err,
			"action", entry.Action,
			"website_id", entry.WebsiteID.String(),
		)
		return err
	}
	for _, sink := range p.sinks {
		if err := sink.Publish(ctx, entry); err != nil {
			p.logger.WarnContext(ctx, "decision log sink failed",
				"error", err,
				"action", entry.Action,
				"website_id", entry.WebsiteID.String(),
			)
		}
	}
	return nil
}
