package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dailymatch-engine/internal/storage"
	"dailymatch-engine/pkg/models"
)

// pickSetTTL keeps stale sets from accumulating; two logical days is enough
// because any read past the refresh boundary regenerates anyway.
const pickSetTTL = 48 * time.Hour

// PickSetStore persists one DailyPickSet per candidate as a JSON value.
type PickSetStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewPickSetStore constructs a PickSetStore.
func NewPickSetStore(client *redis.Client, logger *zap.Logger) *PickSetStore {
	return &PickSetStore{client: client, logger: logger}
}

func pickSetKey(candidateID string) string {
	return fmt.Sprintf("dailypicks:%s", candidateID)
}

// Get loads the stored pick set, or storage.ErrNotFound.
func (s *PickSetStore) Get(ctx context.Context, candidateID string) (*models.DailyPickSet, error) {
	data, err := s.client.Get(ctx, pickSetKey(candidateID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pick set: %w", err)
	}

	var set models.DailyPickSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("unmarshal pick set: %w", err)
	}
	return &set, nil
}

// PutIfStale writes the set inside a WATCH transaction: if the stored refresh
// date already equals the incoming one, another request regenerated first and
// the write is abandoned with storage.ErrStale. The set commits whole or not
// at all, so a partially-written pick set is impossible.
func (s *PickSetStore) PutIfStale(ctx context.Context, set *models.DailyPickSet) error {
	key := pickSetKey(set.CandidateID)

	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal pick set: %w", err)
	}

	txn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("get current pick set: %w", err)
		}
		if err == nil {
			var stored models.DailyPickSet
			if jsonErr := json.Unmarshal(current, &stored); jsonErr == nil &&
				stored.RefreshDate.Equal(set.RefreshDate) {
				return storage.ErrStale
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, pickSetTTL)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 3; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue // key changed under us, re-check staleness
		}
		if err != nil {
			return err
		}
		s.logger.Debug("pick set committed",
			zap.String("candidate_id", set.CandidateID),
			zap.Time("refresh_date", set.RefreshDate),
			zap.Int("picks", len(set.Picks)))
		return nil
	}
	return storage.ErrStale
}
