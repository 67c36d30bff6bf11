package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gobanhq/goban-backend/internal/apperror"
	"github.com/gobanhq/goban-backend/internal/entity"
	"github.com/gobanhq/goban-backend/internal/goban"
	"github.com/gobanhq/goban-backend/internal/pkg"
)

// Events pushed to participants.
const (
	ActionGameStart = "game:start"
	ActionGameMove  = "game:move"
	ActionGameEnd   = "game:end"
)

// Pusher delivers an event to one connected participant. Implementations
// must isolate failures: a stale or missing connection for one participant
// must not affect delivery to the other.
type Pusher interface {
	Push(participantID, action string, event *entity.Event)
	IsConnected(participantID string) bool
}

// resultRecorder hands a finished game to the persistence and rating
// collaborators. Best-effort: implementations log failures and never return
// them into the game path.
type resultRecorder interface {
	RecordResult(ctx context.Context, game *entity.Game, score *entity.Score)
}

// session binds one game to its two seated participants. Its mutex
// serializes every legality check and mutation for the game, so a move and a
// concurrent resignation cannot corrupt board state.
type session struct {
	mu      sync.Mutex
	game    *entity.Game
	players [2]*entity.Player
}

func (that *session) seat(participantID string) (*entity.Player, bool) {
	for _, player := range that.players {
		if player.ID == participantID {
			return player, true
		}
	}
	return nil, false
}

func (that *session) byColor(color string) *entity.Player {
	for _, player := range that.players {
		if player.Color == color {
			return player
		}
	}
	return nil
}

// Coordinator owns the registry of active games. It is the only component
// that invokes rules-engine mutations and the only one that addresses
// participants for game event delivery.
type Coordinator struct {
	logger *slog.Logger
	pusher Pusher
	stats  resultRecorder

	mu       sync.RWMutex
	sessions map[string]*session
}

func NewCoordinator(logger *slog.Logger, pusher Pusher, stats resultRecorder) *Coordinator {
	return &Coordinator{
		logger:   logger.With("component", "coordinator"),
		pusher:   pusher,
		stats:    stats,
		sessions: make(map[string]*session),
	}
}

// CreateGame seats two distinct participants at a fresh board, assigns
// colors by coin flip, and notifies both sides. Matchmaking already
// guarantees distinct identifiers; the check here is defense in depth.
func (that *Coordinator) CreateGame(ctx context.Context, a, b *entity.Player, boardSize int) (*entity.Game, error) {
	log := that.logger.With("method", "CreateGame")

	if a.ID == b.ID {
		return nil, fmt.Errorf("%w: %s", apperror.ErrSameParticipant, a.ID)
	}

	gameID, err := pkg.GenerateGameID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game id: %w", err)
	}

	game, err := goban.NewGame(gameID, boardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	a.Color, b.Color = entity.RandomColors()
	a.GameID = game.ID
	b.GameID = game.ID
	game.Players = []*entity.Player{a, b}

	sess := &session{game: game, players: [2]*entity.Player{a, b}}

	that.mu.Lock()
	that.sessions[game.ID] = sess
	that.mu.Unlock()

	that.pusher.Push(a.ID, ActionGameStart, &entity.Event{Player: a, Opponent: b, Game: game})
	that.pusher.Push(b.ID, ActionGameStart, &entity.Event{Player: b, Opponent: a, Game: game})

	log.Info("game created", "gameID", game.ID, "boardSize", boardSize)

	return game, nil
}

// HandleMove validates and applies a stone placement. On success both
// participants receive the move and the resulting state; on rejection only
// the requester is told why.
func (that *Coordinator) HandleMove(ctx context.Context, participantID, gameID string, x, y int) error {
	sess, ok := that.session(gameID)
	if !ok {
		that.reject(participantID, ActionGameMove, apperror.ErrGameNotFound)
		return apperror.ErrGameNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	player, seated := sess.seat(participantID)
	if !seated {
		that.reject(participantID, ActionGameMove, apperror.ErrNotInGame)
		return apperror.ErrNotInGame
	}

	result, err := goban.TryMove(sess.game, player.Color, x, y)
	if err != nil {
		that.reject(participantID, ActionGameMove, err)
		return fmt.Errorf("move rejected: %w", err)
	}

	event := &entity.Event{Game: sess.game, Move: result.Move}
	for _, seatedPlayer := range sess.players {
		that.pusher.Push(seatedPlayer.ID, ActionGameMove, event)
	}

	return nil
}

// HandlePass applies a pass; the second consecutive pass scores the board
// and finishes the game.
func (that *Coordinator) HandlePass(ctx context.Context, participantID, gameID string) error {
	sess, ok := that.session(gameID)
	if !ok {
		that.reject(participantID, ActionGameMove, apperror.ErrGameNotFound)
		return apperror.ErrGameNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	player, seated := sess.seat(participantID)
	if !seated {
		that.reject(participantID, ActionGameMove, apperror.ErrNotInGame)
		return apperror.ErrNotInGame
	}

	ended, err := goban.Pass(sess.game, player.Color)
	if err != nil {
		that.reject(participantID, ActionGameMove, err)
		return fmt.Errorf("pass rejected: %w", err)
	}

	if ended {
		score := goban.Score(sess.game)
		sess.game.Winner = score.Winner
		that.finishGame(ctx, sess, score)
		return nil
	}

	event := &entity.Event{
		Game: sess.game,
		Move: &entity.Move{Color: player.Color, Pass: true},
	}
	for _, seatedPlayer := range sess.players {
		that.pusher.Push(seatedPlayer.ID, ActionGameMove, event)
	}

	return nil
}

// HandleResignation finishes the game immediately with the opposite color as
// winner. The board is not scored.
func (that *Coordinator) HandleResignation(ctx context.Context, participantID, gameID string) error {
	sess, ok := that.session(gameID)
	if !ok {
		that.reject(participantID, ActionGameEnd, apperror.ErrGameNotFound)
		return apperror.ErrGameNotFound
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	player, seated := sess.seat(participantID)
	if !seated {
		that.reject(participantID, ActionGameEnd, apperror.ErrNotInGame)
		return apperror.ErrNotInGame
	}

	if sess.game.IsFinished() {
		that.reject(participantID, ActionGameEnd, apperror.ErrGameFinished)
		return apperror.ErrGameFinished
	}

	goban.Resign(sess.game, player.Color)
	that.finishGame(ctx, sess, nil)

	return nil
}

// HandleDisconnection records that a seated participant dropped. The game is
// left running: there is no automatic forfeiture, only the log entry.
func (that *Coordinator) HandleDisconnection(participantID string) {
	log := that.logger.With("method", "HandleDisconnection", "participantID", participantID)

	that.mu.RLock()
	defer that.mu.RUnlock()

	for gameID, sess := range that.sessions {
		if _, seated := sess.seat(participantID); seated {
			log.Info("participant disconnected during active game", "gameID", gameID)
		}
	}
}

// ActiveGames reports how many games are currently registered.
func (that *Coordinator) ActiveGames() int {
	that.mu.RLock()
	defer that.mu.RUnlock()
	return len(that.sessions)
}

// finishGame broadcasts the final result, releases the in-memory state, and
// hands the outcome to the collaborators. Callers hold sess.mu and have
// already marked the game finished. Releasing under the registry lock makes
// a second finish for the same id a no-op rather than a double report.
func (that *Coordinator) finishGame(ctx context.Context, sess *session, score *entity.Score) {
	log := that.logger.With("method", "finishGame", "gameID", sess.game.ID)

	that.mu.Lock()
	_, present := that.sessions[sess.game.ID]
	delete(that.sessions, sess.game.ID)
	that.mu.Unlock()

	if !present {
		return
	}

	event := &entity.Event{
		Game:   sess.game,
		Score:  score,
		Reason: sess.game.EndReason,
	}
	for _, seatedPlayer := range sess.players {
		that.pusher.Push(seatedPlayer.ID, ActionGameEnd, event)
	}

	// Collaborator failures are logged inside the recorder; the in-memory
	// outcome above is authoritative and has already been delivered.
	that.stats.RecordResult(ctx, sess.game, score)

	for _, seatedPlayer := range sess.players {
		seatedPlayer.GameID = ""
	}

	log.Info("game finished", "reason", sess.game.EndReason, "winner", sess.game.Winner)
}

func (that *Coordinator) session(gameID string) (*session, bool) {
	that.mu.RLock()
	defer that.mu.RUnlock()
	sess, ok := that.sessions[gameID]
	return sess, ok
}

// reject notifies only the requesting participant with the specific reason
// code.
func (that *Coordinator) reject(participantID, action string, err error) {
	that.pusher.Push(participantID, action, &entity.Event{
		Reason: apperror.ReasonCode(err),
		Error:  err.Error(),
	})
}
