package retention

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type fakePurger struct {
	calls   atomic.Int32
	deleted int64
	err     error
}

func (f *fakePurger) PurgeExpired(context.Context) (int64, error) {
	f.calls.Add(1)
	return f.deleted, f.err
}

type RetentionWorkerSuite struct {
	suite.Suite
	purger *fakePurger
	worker *Worker
}

func TestRetentionWorkerSuite(t *testing.T) {
	suite.Run(t, new(RetentionWorkerSuite))
}

func (s *RetentionWorkerSuite) SetupTest() {
	s.purger = &fakePurger{}
	s.worker = New(s.purger,
		WithInterval(10*time.Millisecond),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func (s *RetentionWorkerSuite) TestRunOnceReportsDeleted() {
	s.purger.deleted = 7

	res, err := s.worker.RunOnce(context.Background())
	s.Require().NoError(err)
	s.Equal(int64(7), res.Deleted)
	s.Equal(int32(1), s.purger.calls.Load())
}

func (s *RetentionWorkerSuite) TestRunOncePropagatesErrors() {
	s.purger.err = context.DeadlineExceeded

	res, err := s.worker.RunOnce(context.Background())
	s.Require().ErrorIs(err, context.DeadlineExceeded)
	s.Nil(res)
}

func (s *RetentionWorkerSuite) TestStartRunsUntilCancelled() {
	s.purger.err = context.DeadlineExceeded // failures do not stop the loop
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.worker.Start(ctx) }()

	s.Eventually(func() bool { return s.purger.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		s.ErrorIs(err, context.Canceled)
	case <-time.After(time.Second):
		s.Fail("worker did not stop")
	}
}

func (s *RetentionWorkerSuite) TestDefaults() {
	w := New(s.purger, WithInterval(0), WithLogger(nil))
	s.Equal(time.Hour, w.interval)
	s.NotNil(w.logger)
}
