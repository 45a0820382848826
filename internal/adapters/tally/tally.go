// Package tally persists per-proposal vote records in Redis sorted sets.
//
// Each proposal gets one sorted set keyed "<org>:<repo>:nomic:<proposal>",
// members are player identities and scores their vote deltas. ZADD on an
// existing member replaces its score, which is exactly the "most recent
// vote wins" semantics the game wants.
package tally

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/okian/nomic/internal/domain/vote"
	"github.com/okian/nomic/pkg/logger"
	"github.com/okian/nomic/pkg/metrics"
)

// Client is the subset of the Redis API the store needs.
type Client interface {
	ZAdd(ctx context.Context, key string, members ...redis.Z) *redis.IntCmd
	ZRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd
}

// Store records and reads per-proposal votes.
type Store struct {
	rdb    Client
	org    string
	repo   string
	logger logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store over the given Redis client.
func New(rdb Client, org, repo string, opts ...Option) *Store {
	s := &Store{
		rdb:  rdb,
		org:  org,
		repo: repo,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("tally")
	}
	return s
}

func (s *Store) key(proposal int) string {
	return fmt.Sprintf("%s:%s:nomic:%d", s.org, s.repo, proposal)
}

// Record upserts a player's vote on a proposal. A prior vote by the same
// player on the same proposal is replaced, never summed.
func (s *Store) Record(ctx context.Context, proposal int, player string, delta vote.Delta) error {
	key := s.key(proposal)
	if err := s.rdb.ZAdd(ctx, key, redis.Z{Score: float64(delta), Member: player}).Err(); err != nil {
		metrics.RecordTallyError()
		s.logger.Error(ctx, "unable to register vote",
			logger.String("player", player),
			logger.Int("proposal", proposal),
			logger.Error(err),
		)
		return fmt.Errorf("%w: %s on %s: %w", ErrWriteFailed, player, key, err)
	}

	metrics.RecordVote()
	s.logger.Info(ctx, "vote registered",
		logger.String("player", player),
		logger.Int("proposal", proposal),
		logger.String("delta", delta.String()),
	)
	return nil
}

// Get reads back the vote mapping for a proposal.
func (s *Store) Get(ctx context.Context, proposal int) (map[string]int, error) {
	members, err := s.rdb.ZRangeWithScores(ctx, s.key(proposal), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read tally for proposal %d: %w", proposal, err)
	}

	votes := make(map[string]int, len(members))
	for _, m := range members {
		player, ok := m.Member.(string)
		if !ok {
			continue
		}
		votes[player] = int(m.Score)
	}
	return votes, nil
}
