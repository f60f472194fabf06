package attendanceimport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	importerrors "go-payroll/internal/attendanceimport/errors"

	"github.com/redis/go-redis/v9"
)

const previewKeyPrefix = "attendance_import:preview:"

//go:generate mockgen -source=import_store.go -destination=mock/import_store_mock.go -package=mock
type PreviewStore interface {
	Save(ctx context.Context, p Preview, ttl time.Duration) error
	Load(ctx context.Context, id string) (Preview, error)
	Delete(ctx context.Context, id string) error
}

type redisPreviewStore struct {
	rdb redis.Cmdable
}

func NewRedisPreviewStore(rdb redis.Cmdable) PreviewStore {
	return &redisPreviewStore{rdb: rdb}
}

func previewKey(id string) string {
	return previewKeyPrefix + id
}

func (s *redisPreviewStore) Save(ctx context.Context, p Preview, ttl time.Duration) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal preview: %w", err)
	}
	return s.rdb.Set(ctx, previewKey(p.ID), payload, ttl).Err()
}

func (s *redisPreviewStore) Load(ctx context.Context, id string) (Preview, error) {
	raw, err := s.rdb.Get(ctx, previewKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Preview{}, importerrors.ErrPreviewNotFound
	}
	if err != nil {
		return Preview{}, err
	}

	var p Preview
	if err := json.Unmarshal(raw, &p); err != nil {
		return Preview{}, fmt.Errorf("decode preview %s: %w", id, err)
	}
	return p, nil
}

func (s *redisPreviewStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, previewKey(id)).Err()
}
