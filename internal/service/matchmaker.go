package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gobanhq/goban-backend/internal/apperror"
	"github.com/gobanhq/goban-backend/internal/entity"
)

// gameCreator is the coordinator surface the matchmaker needs. Pairing is
// deliberately decoupled from ratings and persistence so the queue keeps
// working when those collaborators are degraded.
type gameCreator interface {
	CreateGame(ctx context.Context, a, b *entity.Player, boardSize int) (*entity.Game, error)
}

// presence reports whether a participant still has a live transport handle.
type presence interface {
	IsConnected(participantID string) bool
}

type queueEntry struct {
	player   *entity.Player
	joinedAt time.Time
}

// Matchmaker pairs waiting participants by board-size preference. Entries
// become eligible once their dwell time has elapsed, and entries whose
// connection has gone away are purged before they can be matched.
type Matchmaker struct {
	logger   *slog.Logger
	games    gameCreator
	presence presence

	dwell        time.Duration
	scanInterval time.Duration

	mu      sync.Mutex
	buckets map[int][]*queueEntry
	sizes   map[string]int // participant id -> queued board size
}

func NewMatchmaker(logger *slog.Logger, games gameCreator, presence presence, dwell, scanInterval time.Duration) *Matchmaker {
	return &Matchmaker{
		logger:       logger.With("component", "matchmaker"),
		games:        games,
		presence:     presence,
		dwell:        dwell,
		scanInterval: scanInterval,
		buckets:      make(map[int][]*queueEntry),
		sizes:        make(map[string]int),
	}
}

// Join enqueues a participant for the given board size and returns the
// 1-based queue position. Joining the same size twice is an idempotent
// success; joining a different size withdraws the previous entry first, so a
// participant holds at most one queue membership at a time.
func (that *Matchmaker) Join(player *entity.Player, boardSize int) (int, error) {
	if !entity.ValidBoardSize(boardSize) {
		return 0, fmt.Errorf("%w: %d", apperror.ErrInvalidBoardSize, boardSize)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if queuedSize, queued := that.sizes[player.ID]; queued {
		if queuedSize == boardSize {
			return that.positionLocked(player.ID, boardSize), nil
		}
		that.removeLocked(player.ID, queuedSize)
	}

	that.buckets[boardSize] = append(that.buckets[boardSize], &queueEntry{
		player:   player,
		joinedAt: time.Now(),
	})
	that.sizes[player.ID] = boardSize

	return len(that.buckets[boardSize]), nil
}

// Leave removes the participant from whichever queue holds them. Removing an
// absent participant is a no-op, never an error.
func (that *Matchmaker) Leave(participantID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if boardSize, queued := that.sizes[participantID]; queued {
		that.removeLocked(participantID, boardSize)
	}
}

// Queued reports whether the participant currently holds a queue entry.
func (that *Matchmaker) Queued(participantID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	_, queued := that.sizes[participantID]
	return queued
}

// Run scans the queue until the context is canceled.
func (that *Matchmaker) Run(ctx context.Context) {
	ticker := time.NewTicker(that.scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			that.MatchReady(ctx)
		}
	}
}

// MatchReady performs one matching pass: purge stale entries, then pair off
// every two eligible participants per board-size bucket.
func (that *Matchmaker) MatchReady(ctx context.Context) {
	log := that.logger.With("method", "MatchReady")

	now := time.Now()

	that.mu.Lock()
	var pairs [][2]*entity.Player
	var pairSizes []int

	for boardSize := range that.buckets {
		that.purgeStaleLocked(boardSize)

		var eligible []*queueEntry
		for _, entry := range that.buckets[boardSize] {
			if now.Sub(entry.joinedAt) >= that.dwell {
				eligible = append(eligible, entry)
			}
		}

		for len(eligible) >= 2 {
			first, second := eligible[0], eligible[1]
			eligible = eligible[2:]

			that.removeLocked(first.player.ID, boardSize)
			that.removeLocked(second.player.ID, boardSize)

			pairs = append(pairs, [2]*entity.Player{first.player, second.player})
			pairSizes = append(pairSizes, boardSize)
		}
	}
	that.mu.Unlock()

	// Game creation happens outside the queue lock so a slow notification
	// cannot stall joins and leaves.
	for i, pair := range pairs {
		if _, err := that.games.CreateGame(ctx, pair[0], pair[1], pairSizes[i]); err != nil {
			log.Error("failed to create game for matched pair", "error", err)
		}
	}
}

func (that *Matchmaker) purgeStaleLocked(boardSize int) {
	log := that.logger.With("method", "purgeStale")

	kept := that.buckets[boardSize][:0]
	for _, entry := range that.buckets[boardSize] {
		if that.presence.IsConnected(entry.player.ID) {
			kept = append(kept, entry)
			continue
		}
		delete(that.sizes, entry.player.ID)
		log.Info("purged stale queue entry", "participantID", entry.player.ID, "boardSize", boardSize)
	}
	that.buckets[boardSize] = kept
}

func (that *Matchmaker) removeLocked(participantID string, boardSize int) {
	bucket := that.buckets[boardSize]
	for i, entry := range bucket {
		if entry.player.ID == participantID {
			that.buckets[boardSize] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	delete(that.sizes, participantID)
}

func (that *Matchmaker) positionLocked(participantID string, boardSize int) int {
	for i, entry := range that.buckets[boardSize] {
		if entry.player.ID == participantID {
			return i + 1
		}
	}
	return 0
}
