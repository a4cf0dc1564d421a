package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"dailymatch-engine/internal/storage"
	"dailymatch-engine/pkg/models"
)

// StreakStore persists one StreakRecord per candidate. Updates run inside a
// WATCH transaction so concurrent qualifying events for the same candidate
// serialize instead of double-incrementing within one day.
type StreakStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewStreakStore constructs a StreakStore.
func NewStreakStore(client *redis.Client, logger *zap.Logger) *StreakStore {
	return &StreakStore{client: client, logger: logger}
}

func streakKey(candidateID string) string {
	return fmt.Sprintf("streak:%s", candidateID)
}

// Get loads the stored streak record, or storage.ErrNotFound.
func (s *StreakStore) Get(ctx context.Context, candidateID string) (*models.StreakRecord, error) {
	data, err := s.client.Get(ctx, streakKey(candidateID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get streak: %w", err)
	}

	var rec models.StreakRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal streak: %w", err)
	}
	return &rec, nil
}

// Apply runs fn over the candidate's record under WATCH and commits the
// result atomically, retrying when a concurrent writer races the update.
func (s *StreakStore) Apply(ctx context.Context, candidateID string, fn func(models.StreakRecord) models.StreakRecord) (*models.StreakRecord, error) {
	key := streakKey(candidateID)
	var updated models.StreakRecord

	txn := func(tx *redis.Tx) error {
		rec := models.StreakRecord{CandidateID: candidateID}

		data, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("get streak: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(data, &rec); err != nil {
				return fmt.Errorf("unmarshal streak: %w", err)
			}
		}

		updated = fn(rec)

		out, err := json.Marshal(&updated)
		if err != nil {
			return fmt.Errorf("marshal streak: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < 5; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		s.logger.Debug("streak updated",
			zap.String("candidate_id", candidateID),
			zap.Int("current", updated.CurrentStreak),
			zap.Int("longest", updated.LongestStreak))
		return &updated, nil
	}
	return nil, fmt.Errorf("streak update for %s kept racing, giving up", candidateID)
}
