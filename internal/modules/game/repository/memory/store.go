package memory

import (
	"context"
	"sync"

	"github.com/takaki719/emoguchi/internal/modules/game/domain"
)

// StateStore is the in-process backend for single-instance deployments
// and tests. Rooms are deep-copied on the way in and out so callers
// never alias internal state.
type StateStore struct {
	mu          sync.RWMutex
	rooms       map[string]*domain.Room
	recordings  map[string]*domain.Recording
	scores      []*domain.ScoreEntry
	soloResults map[string][]*domain.SoloResult // device id -> results
}

func NewStateStore() *StateStore {
	return &StateStore{
		rooms:       make(map[string]*domain.Room),
		recordings:  make(map[string]*domain.Recording),
		soloResults: make(map[string][]*domain.SoloResult),
	}
}

func (s *StateStore) CreateRoom(ctx context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room.Clone()
	return nil
}

func (s *StateStore) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[roomID]
	if !ok {
		return nil, nil
	}
	return room.Clone(), nil
}

func (s *StateStore) UpdateRoom(ctx context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room.Clone()
	return nil
}

func (s *StateStore) DeleteRoom(ctx context.Context, roomID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, roomID)
	return nil
}

func (s *StateStore) ListRoomIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	return ids, nil
}

// RestartRoom replaces the stored aggregate. The memory backend keeps
// no session history, so a restart is just an overwrite.
func (s *StateStore) RestartRoom(ctx context.Context, room *domain.Room) error {
	return s.UpdateRoom(ctx, room)
}

func (s *StateStore) SaveRecording(ctx context.Context, rec *domain.Recording) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.recordings[rec.ID] = &cp
	return nil
}

func (s *StateStore) GetRecording(ctx context.Context, recordingID string) (*domain.Recording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.recordings[recordingID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (s *StateStore) DeleteRecording(ctx context.Context, recordingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recordings, recordingID)
	return nil
}

func (s *StateStore) SaveScore(ctx context.Context, entry *domain.ScoreEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.scores = append(s.scores, &cp)
	return nil
}

// ScoreEntries returns a snapshot of the ledger, mostly for tests and
// debugging.
func (s *StateStore) ScoreEntries() []*domain.ScoreEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*domain.ScoreEntry, len(s.scores))
	for i, e := range s.scores {
		cp := *e
		out[i] = &cp
	}
	return out
}

func (s *StateStore) SaveSoloResult(ctx context.Context, result *domain.SoloResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *result
	s.soloResults[result.DeviceID] = append(s.soloResults[result.DeviceID], &cp)
	return nil
}

func (s *StateStore) ListSoloResults(ctx context.Context, deviceID string, limit int) ([]*domain.SoloResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := s.soloResults[deviceID]
	if limit > 0 && len(results) > limit {
		results = results[len(results)-limit:]
	}
	out := make([]*domain.SoloResult, len(results))
	for i, r := range results {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}
