package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/takaki719/emoguchi/internal/config"
	"github.com/takaki719/emoguchi/internal/modules/game/domain"
	"github.com/takaki719/emoguchi/pkg/logger"
)

// StateStore persists rooms in Postgres. A room id identifies a chain of
// game_sessions rows; the newest unfinished one is the live state, so a
// restart keeps full history while the aggregate starts over.
type StateStore struct {
	db *gorm.DB
}

func NewStateStore(db *gorm.DB) *StateStore {
	return &StateStore{db: db}
}

// Open connects to Postgres and migrates the schema.
func Open(cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&GameSession{},
		&SessionPlayer{},
		&GameRound{},
		&RoundVote{},
		&RecordingRow{},
		&ScoreEntryRow{},
		&SoloSessionRow{},
	)
}

func (s *StateStore) CreateRoom(ctx context.Context, room *domain.Room) error {
	session, players, err := sessionRows(room, uuid.NewString())
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		if len(players) > 0 {
			if err := tx.Create(&players).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *StateStore) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	session, err := s.currentSession(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}
	return s.loadAggregate(ctx, session)
}

func (s *StateStore) UpdateRoom(ctx context.Context, room *domain.Room) error {
	session, err := s.currentSession(ctx, room.ID)
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("no live session for room %q", room.ID)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.writeAggregate(tx, session.ID, room)
	})
}

func (s *StateStore) DeleteRoom(ctx context.Context, roomID string) error {
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Model(&GameSession{}).
		Where("room_code = ? AND finished_at IS NULL", roomID).
		Updates(map[string]interface{}{
			"status":      statusFinished,
			"finished_at": now,
		}).Error
}

func (s *StateStore) ListRoomIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&GameSession{}).
		Where("finished_at IS NULL").
		Distinct("room_code").
		Pluck("room_code", &ids).Error
	return ids, err
}

// RestartRoom retires every live session of the room and seeds a fresh
// one from the reset aggregate, in one transaction.
func (s *StateStore) RestartRoom(ctx context.Context, room *domain.Room) error {
	session, players, err := sessionRows(room, uuid.NewString())
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&GameSession{}).
			Where("room_code = ? AND finished_at IS NULL", room.ID).
			Updates(map[string]interface{}{
				"status":      statusFinished,
				"finished_at": now,
			}).Error; err != nil {
			return err
		}
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		if len(players) > 0 {
			if err := tx.Create(&players).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *StateStore) SaveRecording(ctx context.Context, rec *domain.Recording) error {
	row := &RecordingRow{
		ID:          rec.ID,
		RoomCode:    rec.RoomID,
		RoundID:     rec.RoundID,
		SpeakerID:   rec.SpeakerID,
		AudioURL:    rec.AudioURL,
		IsProcessed: rec.IsProcessed,
		CreatedAt:   rec.CreatedAt,
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"audio_url", "is_processed"}),
	}).Create(row).Error
}

func (s *StateStore) GetRecording(ctx context.Context, recordingID string) (*domain.Recording, error) {
	var row RecordingRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", recordingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Recording{
		ID:          row.ID,
		RoomID:      row.RoomCode,
		RoundID:     row.RoundID,
		SpeakerID:   row.SpeakerID,
		AudioURL:    row.AudioURL,
		IsProcessed: row.IsProcessed,
		CreatedAt:   row.CreatedAt,
	}, nil
}

func (s *StateStore) DeleteRecording(ctx context.Context, recordingID string) error {
	return s.db.WithContext(ctx).Delete(&RecordingRow{}, "id = ?", recordingID).Error
}

func (s *StateStore) SaveScore(ctx context.Context, entry *domain.ScoreEntry) error {
	session, err := s.currentSession(ctx, entry.RoomID)
	if err != nil {
		return err
	}
	sessionID := ""
	if session != nil {
		sessionID = session.ID
	}
	row := &ScoreEntryRow{
		ID:        entry.ID,
		SessionID: sessionID,
		RoundID:   entry.RoundID,
		PlayerID:  entry.PlayerID,
		Points:    entry.Points,
		Role:      entry.Role,
		CreatedAt: entry.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *StateStore) SaveSoloResult(ctx context.Context, result *domain.SoloResult) error {
	row := &SoloSessionRow{
		ID:             result.ID,
		DeviceID:       result.DeviceID,
		Phrase:         result.Phrase,
		TargetEmotion:  result.TargetEmotion,
		PredictedClass: result.PredictedClass,
		Score:          result.Score,
		IsCorrect:      result.IsCorrect,
		CreatedAt:      result.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(row).Error
}

func (s *StateStore) ListSoloResults(ctx context.Context, deviceID string, limit int) ([]*domain.SoloResult, error) {
	q := s.db.WithContext(ctx).
		Where("device_id = ?", deviceID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []SoloSessionRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	// Rows come back newest first; callers expect chronological order.
	out := make([]*domain.SoloResult, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = &domain.SoloResult{
			ID:             row.ID,
			DeviceID:       row.DeviceID,
			Phrase:         row.Phrase,
			TargetEmotion:  row.TargetEmotion,
			PredictedClass: row.PredictedClass,
			Score:          row.Score,
			IsCorrect:      row.IsCorrect,
			CreatedAt:      row.CreatedAt,
		}
	}
	return out, nil
}

func (s *StateStore) currentSession(ctx context.Context, roomID string) (*GameSession, error) {
	var session GameSession
	err := s.db.WithContext(ctx).
		Where("room_code = ? AND finished_at IS NULL", roomID).
		Order("created_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *StateStore) loadAggregate(ctx context.Context, session *GameSession) (*domain.Room, error) {
	phase, err := phaseForStatus(session.Status)
	if err != nil {
		return nil, err
	}

	var playerRows []SessionPlayer
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", session.ID).
		Order("joined_at ASC").
		Find(&playerRows).Error; err != nil {
		return nil, err
	}

	var roundRows []GameRound
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", session.ID).
		Order("round_number ASC").
		Find(&roundRows).Error; err != nil {
		return nil, err
	}

	var scoreRows []ScoreEntryRow
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", session.ID).
		Find(&scoreRows).Error; err != nil {
		return nil, err
	}

	votesByRound := map[string]map[string]string{}
	if len(roundRows) > 0 {
		roundIDs := make([]string, len(roundRows))
		for i, r := range roundRows {
			roundIDs[i] = r.ID
		}
		var voteRows []RoundVote
		if err := s.db.WithContext(ctx).
			Where("round_id IN ?", roundIDs).
			Find(&voteRows).Error; err != nil {
			return nil, err
		}
		for _, v := range voteRows {
			if votesByRound[v.RoundID] == nil {
				votesByRound[v.RoundID] = map[string]string{}
			}
			votesByRound[v.RoundID][v.VoterID] = v.EmotionID
		}
	}

	room := &domain.Room{
		ID: session.RoomCode,
		Config: domain.RoomConfig{
			Mode:         session.Mode,
			VoteType:     session.VoteType,
			SpeakerOrder: session.SpeakerOrder,
			VoteTimeout:  session.VoteTimeout,
			MaxRounds:    session.MaxRounds,
			HardMode:     session.HardMode,
		},
		Phase:               phase,
		Players:             make(map[string]*domain.Player, len(playerRows)),
		CurrentSpeakerIndex: session.CurrentSpeakerIndex,
		HostToken:           session.HostToken,
		CreatedAt:           session.CreatedAt,
	}
	if session.SpeakerOrderCache != "" {
		if err := json.Unmarshal([]byte(session.SpeakerOrderCache), &room.SpeakerOrderCache); err != nil {
			return nil, fmt.Errorf("decode speaker order cache: %w", err)
		}
	}

	// Visible totals are the sum of this session's ledger rows; the score
	// column on session_players is only a write-side cache.
	totals := scoreTotals(scoreRows)
	for _, row := range playerRows {
		room.Players[row.PlayerID] = &domain.Player{
			ID:          row.PlayerID,
			Name:        row.Name,
			Score:       totals[row.PlayerID],
			IsHost:      row.IsHost,
			IsConnected: row.IsConnected,
			JoinedAt:    row.JoinedAt,
		}
	}

	for _, row := range roundRows {
		round, err := domainRound(row, votesByRound[row.ID])
		if err != nil {
			return nil, err
		}
		if row.IsCompleted {
			room.RoundHistory = append(room.RoundHistory, round)
		} else {
			room.CurrentRound = round
		}
	}

	return room, nil
}

// writeAggregate upserts the whole room under one session id. Finished
// rows are never rewritten by a later session, so history stays intact.
func (s *StateStore) writeAggregate(tx *gorm.DB, sessionID string, room *domain.Room) error {
	session, players, err := sessionRows(room, sessionID)
	if err != nil {
		return err
	}

	if err := tx.Model(&GameSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":                session.Status,
			"mode":                  session.Mode,
			"vote_type":             session.VoteType,
			"speaker_order":         session.SpeakerOrder,
			"vote_timeout":          session.VoteTimeout,
			"max_rounds":            session.MaxRounds,
			"hard_mode":             session.HardMode,
			"current_speaker_index": session.CurrentSpeakerIndex,
			"speaker_order_cache":   session.SpeakerOrderCache,
		}).Error; err != nil {
		return err
	}

	for _, p := range players {
		row := p
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "score", "is_host", "is_connected"}),
		}).Create(&row).Error; err != nil {
			return err
		}
	}

	rounds := append([]*domain.Round(nil), room.RoundHistory...)
	if room.CurrentRound != nil {
		rounds = append(rounds, room.CurrentRound)
	}
	for i, rd := range rounds {
		row, err := roundRow(sessionID, i+1, rd)
		if err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"round_number", "audio_recording_id", "is_completed",
				"voting_started_at", "completed_at",
			}),
		}).Create(row).Error; err != nil {
			return err
		}
		for voterID, emotionID := range rd.Votes {
			vote := &RoundVote{
				ID:        uuid.NewString(),
				RoundID:   rd.ID,
				VoterID:   voterID,
				EmotionID: emotionID,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "round_id"}, {Name: "voter_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"emotion_id", "updated_at"}),
			}).Create(vote).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func sessionRows(room *domain.Room, sessionID string) (*GameSession, []SessionPlayer, error) {
	status, err := statusForPhase(room.Phase)
	if err != nil {
		return nil, nil, err
	}

	cache := ""
	if len(room.SpeakerOrderCache) > 0 {
		raw, err := json.Marshal(room.SpeakerOrderCache)
		if err != nil {
			return nil, nil, fmt.Errorf("encode speaker order cache: %w", err)
		}
		cache = string(raw)
	}

	session := &GameSession{
		ID:                  sessionID,
		RoomCode:            room.ID,
		Status:              status,
		Mode:                room.Config.Mode,
		VoteType:            room.Config.VoteType,
		SpeakerOrder:        room.Config.SpeakerOrder,
		VoteTimeout:         room.Config.VoteTimeout,
		MaxRounds:           room.Config.MaxRounds,
		HardMode:            room.Config.HardMode,
		CurrentSpeakerIndex: room.CurrentSpeakerIndex,
		SpeakerOrderCache:   cache,
		HostToken:           room.HostToken,
		CreatedAt:           room.CreatedAt,
	}

	players := make([]SessionPlayer, 0, len(room.Players))
	for _, p := range room.Players {
		players = append(players, SessionPlayer{
			ID:          uuid.NewString(),
			SessionID:   sessionID,
			PlayerID:    p.ID,
			Name:        p.Name,
			Score:       p.Score,
			IsHost:      p.IsHost,
			IsConnected: p.IsConnected,
			JoinedAt:    p.JoinedAt,
		})
	}
	return session, players, nil
}

func roundRow(sessionID string, number int, rd *domain.Round) (*GameRound, error) {
	voters, err := json.Marshal(rd.EligibleVoters)
	if err != nil {
		return nil, fmt.Errorf("encode eligible voters: %w", err)
	}
	return &GameRound{
		ID:                 rd.ID,
		SessionID:          sessionID,
		RoundNumber:        number,
		SpeakerID:          rd.SpeakerID,
		Phrase:             rd.Phrase,
		EmotionID:          rd.EmotionID,
		EligibleVoters:     string(voters),
		AudioRecordingID:   rd.AudioRecordingID,
		IsCompleted:        rd.IsCompleted,
		VotingStartedAt:    rd.VotingStartedAt,
		VoteTimeoutSeconds: rd.VoteTimeoutSeconds,
		StartedAt:          rd.StartedAt,
		CompletedAt:        rd.CompletedAt,
	}, nil
}

func scoreTotals(rows []ScoreEntryRow) map[string]int {
	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.PlayerID] += row.Points
	}
	return totals
}

func domainRound(row GameRound, votes map[string]string) (*domain.Round, error) {
	var voters []string
	if row.EligibleVoters != "" {
		if err := json.Unmarshal([]byte(row.EligibleVoters), &voters); err != nil {
			return nil, fmt.Errorf("decode eligible voters for round %s: %w", row.ID, err)
		}
	}
	if votes == nil {
		votes = map[string]string{}
	}
	return &domain.Round{
		ID:                 row.ID,
		Phrase:             row.Phrase,
		EmotionID:          row.EmotionID,
		SpeakerID:          row.SpeakerID,
		Votes:              votes,
		AudioRecordingID:   row.AudioRecordingID,
		IsCompleted:        row.IsCompleted,
		StartedAt:          row.StartedAt,
		CompletedAt:        row.CompletedAt,
		EligibleVoters:     voters,
		VotingStartedAt:    row.VotingStartedAt,
		VoteTimeoutSeconds: row.VoteTimeoutSeconds,
	}, nil
}
