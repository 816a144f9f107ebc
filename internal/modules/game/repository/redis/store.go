package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/takaki719/emoguchi/internal/config"
	"github.com/takaki719/emoguchi/internal/modules/game/domain"
)

const (
	roomKeyPrefix      = "room:"
	recordingKeyPrefix = "recording:"
	scoreListKey       = "score_ledger"
	soloKeyPrefix      = "solo:"

	roomTTL      = 24 * time.Hour
	recordingTTL = 24 * time.Hour
	soloTTL      = 30 * 24 * time.Hour
)

// StateStore keeps rooms as JSON blobs in Redis so multiple server
// instances can share state. The per-room mutex in the use case layer
// still serializes writers within one process; cross-instance callers
// are expected to be sticky-routed per room.
type StateStore struct {
	rdb *redis.Client
}

func NewStateStore(rdb *redis.Client) *StateStore {
	return &StateStore{rdb: rdb}
}

// Open connects to Redis and verifies the connection.
func Open(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return rdb, nil
}

func roomKey(roomID string) string   { return roomKeyPrefix + roomID }
func recordingKey(id string) string  { return recordingKeyPrefix + id }
func soloKey(deviceID string) string { return soloKeyPrefix + deviceID }

func (s *StateStore) setRoom(ctx context.Context, room *domain.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("encode room %s: %w", room.ID, err)
	}
	return s.rdb.Set(ctx, roomKey(room.ID), data, roomTTL).Err()
}

func (s *StateStore) CreateRoom(ctx context.Context, room *domain.Room) error {
	return s.setRoom(ctx, room)
}

func (s *StateStore) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	data, err := s.rdb.Get(ctx, roomKey(roomID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var room domain.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, fmt.Errorf("decode room %s: %w", roomID, err)
	}
	if room.Players == nil {
		room.Players = map[string]*domain.Player{}
	}
	return &room, nil
}

func (s *StateStore) UpdateRoom(ctx context.Context, room *domain.Room) error {
	return s.setRoom(ctx, room)
}

func (s *StateStore) DeleteRoom(ctx context.Context, roomID string) error {
	return s.rdb.Del(ctx, roomKey(roomID)).Err()
}

func (s *StateStore) ListRoomIDs(ctx context.Context) ([]string, error) {
	var ids []string
	iter := s.rdb.Scan(ctx, 0, roomKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, iter.Val()[len(roomKeyPrefix):])
	}
	return ids, iter.Err()
}

// RestartRoom overwrites the blob; session history lives only in the
// score ledger for this backend.
func (s *StateStore) RestartRoom(ctx context.Context, room *domain.Room) error {
	return s.setRoom(ctx, room)
}

func (s *StateStore) SaveRecording(ctx context.Context, rec *domain.Recording) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, recordingKey(rec.ID), data, recordingTTL).Err()
}

func (s *StateStore) GetRecording(ctx context.Context, recordingID string) (*domain.Recording, error) {
	data, err := s.rdb.Get(ctx, recordingKey(recordingID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec domain.Recording
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *StateStore) DeleteRecording(ctx context.Context, recordingID string) error {
	return s.rdb.Del(ctx, recordingKey(recordingID)).Err()
}

func (s *StateStore) SaveScore(ctx context.Context, entry *domain.ScoreEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.RPush(ctx, scoreListKey, data).Err()
}

func (s *StateStore) SaveSoloResult(ctx context.Context, result *domain.SoloResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	pipe := s.rdb.Pipeline()
	key := soloKey(result.DeviceID)
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, soloTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *StateStore) ListSoloResults(ctx context.Context, deviceID string, limit int) ([]*domain.SoloResult, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	items, err := s.rdb.LRange(ctx, soloKey(deviceID), start, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*domain.SoloResult, 0, len(items))
	for _, item := range items {
		var result domain.SoloResult
		if err := json.Unmarshal([]byte(item), &result); err != nil {
			continue
		}
		out = append(out, &result)
	}
	return out, nil
}
