package cache_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mendbayar/taskdesk/internal/cache"
	"github.com/mendbayar/taskdesk/internal/domain"
)

// stubSource returns fixed counters instead of aggregating a task store.
type stubSource struct {
	counters domain.StatusCounters
}

func (s stubSource) StatusCounts(_ context.Context, _ time.Time) (domain.StatusCounters, error) {
	return s.counters, nil
}

// StatsTestSuite exercises the counter cache against live Redis.
type StatsTestSuite struct {
	suite.Suite
	rdb   *redis.Client
	stats *cache.Stats
}

func (s *StatsTestSuite) SetupSuite() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb, err := cache.NewClient(context.Background(), addr, os.Getenv("REDIS_PASSWORD"))
	s.Require().NoError(err, "failed to connect to redis")

	s.rdb = rdb
	s.stats = cache.NewStats(rdb, time.UTC)
}

func (s *StatsTestSuite) SetupTest() {
	s.Require().NoError(s.rdb.FlushDB(context.Background()).Err())
}

func (s *StatsTestSuite) TearDownSuite() {
	if s.rdb != nil {
		s.rdb.Close()
	}
}

func (s *StatsTestSuite) TestEmptyUntilRebuilt() {
	ctx := context.Background()

	empty, err := s.stats.IsEmpty(ctx)
	s.Require().NoError(err)
	s.True(empty)

	src := stubSource{counters: domain.StatusCounters{
		Total: 6, Pending: 3, InProgress: 2, Completed: 1, Overdue: 1,
	}}

	built, err := s.stats.Rebuild(ctx, src)
	s.Require().NoError(err)
	s.Equal(6, built.Total)

	empty, err = s.stats.IsEmpty(ctx)
	s.Require().NoError(err)
	s.False(empty)

	read, err := s.stats.Read(ctx)
	s.Require().NoError(err)
	s.Equal(src.counters, read)
}

func (s *StatsTestSuite) TestIncreaseAndMove() {
	ctx := context.Background()

	_, err := s.stats.Rebuild(ctx, stubSource{})
	s.Require().NoError(err)

	s.Require().NoError(s.stats.Increase(ctx, domain.TaskStatusActive))
	s.Require().NoError(s.stats.Increase(ctx, domain.TaskStatusActive))
	s.Require().NoError(s.stats.Move(ctx, domain.TaskStatusActive, domain.TaskStatusInProgress))

	read, err := s.stats.Read(ctx)
	s.Require().NoError(err)
	s.Equal(2, read.Total)
	s.Equal(1, read.Active)
	s.Equal(1, read.InProgress)
}

func (s *StatsTestSuite) TestReadDefaultsMissingToZero() {
	ctx := context.Background()

	read, err := s.stats.Read(ctx)
	s.Require().NoError(err)
	s.Equal(domain.StatusCounters{}, read)
}

func TestStatsTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	suite.Run(t, new(StatsTestSuite))
}
