package persistent

import (
	"context"
	"encoding/json"
	"fmt"

	"contest-arena/services/leaderboard/internal/entity"

	"github.com/redis/go-redis/v9"
)

// LiveRepository holds in-flight contest scores in redis. One hash per
// contest, keyed by user id, holding the serialized entry.
type LiveRepository interface {
	SetEntry(ctx context.Context, contestID string, entry entity.Entry) error
	GetEntries(ctx context.Context, contestID string) ([]entity.Entry, error)
	Delete(ctx context.Context, contestID string) error
}

type liveRepository struct {
	client *redis.Client
}

func NewLiveRepository(client *redis.Client) LiveRepository {
	return &liveRepository{client: client}
}

func leaderboardKey(contestID string) string {
	return fmt.Sprintf("leaderboard:%s", contestID)
}

func (r *liveRepository) SetEntry(ctx context.Context, contestID string, entry entity.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard entry: %w", err)
	}
	return r.client.HSet(ctx, leaderboardKey(contestID), entry.UserID, data).Err()
}

func (r *liveRepository) GetEntries(ctx context.Context, contestID string) ([]entity.Entry, error) {
	fields, err := r.client.HGetAll(ctx, leaderboardKey(contestID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	entries := make([]entity.Entry, 0, len(fields))
	for userID, raw := range fields {
		var entry entity.Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			// Skip unreadable rows rather than failing the whole board
			continue
		}
		entry.UserID = userID
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *liveRepository) Delete(ctx context.Context, contestID string) error {
	return r.client.Del(ctx, leaderboardKey(contestID)).Err()
}
