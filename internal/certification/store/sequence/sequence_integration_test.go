//go:build integration

package sequence_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"accredit/internal/certification/store/sequence"
	"accredit/pkg/testutil/containers"
)

type allocator interface {
	Next(ctx context.Context, year int) (int64, error)
}

type CounterSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	redis    *containers.RedisContainer
}

func TestCounterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CounterSuite))
}

func (s *CounterSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.redis = mgr.GetRedis(s.T())
}

func (s *CounterSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "credential_sequences"))
	s.Require().NoError(s.redis.FlushAll(ctx))
}

func (s *CounterSuite) TestPostgresCounterIsGapFreeUnderConcurrency() {
	s.assertGapFree(sequence.NewPostgresCounter(s.postgres.DB))
}

func (s *CounterSuite) TestRedisCounterIsGapFreeUnderConcurrency() {
	s.assertGapFree(sequence.NewRedisCounter(s.redis.Client))
}

func (s *CounterSuite) assertGapFree(counter allocator) {
	ctx := context.Background()
	const callers = 50
	got := make([]int64, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], errs[i] = counter.Next(ctx, 2026)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		s.Require().NoError(err)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, v := range got {
		s.Equal(int64(i+1), v)
	}

	next, err := counter.Next(ctx, 2027)
	s.Require().NoError(err)
	s.Equal(int64(1), next)
}
