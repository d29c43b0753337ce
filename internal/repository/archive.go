package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/playmesh/connectfour-backend/internal/entity"
)

const (
	archiveKey = "games:archive"
	archiveCap = 50
)

// GameArchiveRepository keeps a capped list of finished-game records.
type GameArchiveRepository interface {
	Save(ctx context.Context, record *entity.GameRecord) error
	Recent(ctx context.Context, limit int) ([]entity.GameRecord, error)
}

type dbArchive struct {
	client *redis.Client
}

func NewGameArchiveRepository(client *redis.Client) GameArchiveRepository {
	return &dbArchive{
		client: client,
	}
}

func (that *dbArchive) Save(ctx context.Context, record *entity.GameRecord) error {
	recordJSON, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	if err = that.client.LPush(ctx, archiveKey, recordJSON).Err(); err != nil {
		return fmt.Errorf("failed to push game record: %w", err)
	}

	if err = that.client.LTrim(ctx, archiveKey, 0, archiveCap-1).Err(); err != nil {
		return fmt.Errorf("failed to trim game archive: %w", err)
	}

	return nil
}

func (that *dbArchive) Recent(ctx context.Context, limit int) ([]entity.GameRecord, error) {
	if limit <= 0 || limit > archiveCap {
		limit = archiveCap
	}

	rows, err := that.client.LRange(ctx, archiveKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read game archive: %w", err)
	}

	records := make([]entity.GameRecord, 0, len(rows))

	for _, row := range rows {
		var record entity.GameRecord
		if err = json.Unmarshal([]byte(row), &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal game record: %w", err)
		}

		records = append(records, record)
	}

	return records, nil
}
