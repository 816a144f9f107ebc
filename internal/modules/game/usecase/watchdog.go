package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/takaki719/emoguchi/pkg/logger"
)

// voteTimers tracks the pending timeout watchdog per (room, round) so a
// completed round can cancel its timer instead of letting it fire into
// the void.
type voteTimers struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func newVoteTimers() *voteTimers {
	return &voteTimers{cancels: make(map[string]context.CancelFunc)}
}

func timerKey(roomID, roundID string) string {
	return roomID + "\x00" + roundID
}

func (t *voteTimers) register(roomID, roundID string, cancel context.CancelFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := timerKey(roomID, roundID)
	if old, ok := t.cancels[key]; ok {
		old()
	}
	t.cancels[key] = cancel
}

func (t *voteTimers) cancel(roomID, roundID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := timerKey(roomID, roundID)
	if cancel, ok := t.cancels[key]; ok {
		cancel()
		delete(t.cancels, key)
	}
}

func (t *voteTimers) remove(roomID, roundID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.cancels, timerKey(roomID, roundID))
}

// scheduleVoteTimeout arms the watchdog for a round. Cancellation is an
// optimization only: a watchdog that fires anyway re-validates the room
// state before acting, so a missed cancel is harmless.
func (uc *GameUseCase) scheduleVoteTimeout(roomID, roundID string, timeout time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	uc.timers.register(roomID, roundID, cancel)

	go func() {
		defer uc.timers.remove(roomID, roundID)

		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		fireCtx := logger.WithRequestID(context.Background(), logger.GenerateRequestID())
		uc.handleVoteTimeout(fireCtx, roomID, roundID)
	}()
}

// handleVoteTimeout force-completes a round whose voting window has
// elapsed. Absent votes are simply missing; no timeout notification is
// sent. Every condition is re-checked under the room lock because the
// sleep raced with normal completion.
func (uc *GameUseCase) handleVoteTimeout(ctx context.Context, roomID, roundID string) {
	mu := uc.locks.get(roomID)
	mu.Lock()
	defer mu.Unlock()

	room, err := uc.store.GetRoom(ctx, roomID)
	if err != nil {
		logger.Error(ctx).Err(err).Str("room_id", roomID).Msg("vote timeout: failed to load room")
		return
	}
	if room == nil || room.CurrentRound == nil {
		return
	}
	round := room.CurrentRound

	if round.ID != roundID || round.IsCompleted {
		return
	}
	if round.VotingStartedAt == nil {
		logger.Warn(ctx).Str("room_id", roomID).Str("round_id", roundID).Msg("vote timeout fired before voting started")
		return
	}

	// Wall-clock check guards against a timer armed against a stale
	// VotingStartedAt, e.g. after a process restart.
	elapsed := time.Since(*round.VotingStartedAt)
	if elapsed < time.Duration(round.VoteTimeoutSeconds)*time.Second {
		return
	}

	logger.Warn(ctx).
		Str("room_id", roomID).
		Str("round_id", roundID).
		Dur("elapsed", elapsed).
		Int("votes", len(round.Votes)).
		Msg("vote timeout, forcing round completion")

	if err := uc.completeRound(ctx, room); err != nil {
		logger.Error(ctx).Err(err).Str("room_id", roomID).Msg("vote timeout: failed to complete round")
	}
}
