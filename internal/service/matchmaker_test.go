package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gobanhq/goban-backend/internal/apperror"
	"github.com/gobanhq/goban-backend/internal/entity"
)

// fakeGameCreator records the pairs handed over by the matchmaker.
type fakeGameCreator struct {
	mu    sync.Mutex
	pairs [][2]*entity.Player
	sizes []int
}

func (that *fakeGameCreator) CreateGame(_ context.Context, a, b *entity.Player, boardSize int) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.pairs = append(that.pairs, [2]*entity.Player{a, b})
	that.sizes = append(that.sizes, boardSize)
	return &entity.Game{ID: "game", BoardSize: boardSize}, nil
}

func (that *fakeGameCreator) created() [][2]*entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.pairs
}

// fakePresence treats every participant as connected unless marked gone.
type fakePresence struct {
	mu   sync.Mutex
	gone map[string]bool
}

func newFakePresence() *fakePresence {
	return &fakePresence{gone: make(map[string]bool)}
}

func (that *fakePresence) IsConnected(participantID string) bool {
	that.mu.Lock()
	defer that.mu.Unlock()
	return !that.gone[participantID]
}

func (that *fakePresence) drop(participantID string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.gone[participantID] = true
}

func newTestMatchmaker(dwell time.Duration) (*Matchmaker, *fakeGameCreator, *fakePresence) {
	creator := &fakeGameCreator{}
	presence := newFakePresence()
	return NewMatchmaker(testLogger(), creator, presence, dwell, time.Millisecond), creator, presence
}

func TestMatchmaker_Join(t *testing.T) {
	t.Run("positions are first come first served", func(t *testing.T) {
		matchmaker, _, _ := newTestMatchmaker(0)

		first, err := matchmaker.Join(&entity.Player{ID: "player-a"}, 9)
		require.NoError(t, err)
		second, err := matchmaker.Join(&entity.Player{ID: "player-b"}, 9)
		require.NoError(t, err)

		assert.Equal(t, 1, first)
		assert.Equal(t, 2, second)
		assert.True(t, matchmaker.Queued("player-a"))
	})

	t.Run("unsupported board size is rejected", func(t *testing.T) {
		matchmaker, _, _ := newTestMatchmaker(0)

		_, err := matchmaker.Join(&entity.Player{ID: "player-a"}, 10)

		assert.ErrorIs(t, err, apperror.ErrInvalidBoardSize)
		assert.False(t, matchmaker.Queued("player-a"))
	})

	t.Run("rejoining the same size keeps the original position", func(t *testing.T) {
		// Given: two participants queued for 9x9
		matchmaker, _, _ := newTestMatchmaker(0)
		player := &entity.Player{ID: "player-a"}
		_, err := matchmaker.Join(player, 9)
		require.NoError(t, err)
		_, err = matchmaker.Join(&entity.Player{ID: "player-b"}, 9)
		require.NoError(t, err)

		// When: the first one joins again
		position, err := matchmaker.Join(player, 9)

		// Then: the entry is reused, not duplicated
		require.NoError(t, err)
		assert.Equal(t, 1, position)
	})

	t.Run("joining a different size withdraws the old entry", func(t *testing.T) {
		// Given: a participant queued for 9x9
		matchmaker, _, _ := newTestMatchmaker(0)
		player := &entity.Player{ID: "player-a"}
		_, err := matchmaker.Join(player, 9)
		require.NoError(t, err)

		// When: the same participant queues for 19x19
		position, err := matchmaker.Join(player, 19)
		require.NoError(t, err)
		assert.Equal(t, 1, position)

		// Then: a newcomer to 9x9 finds the bucket empty
		newcomer, err := matchmaker.Join(&entity.Player{ID: "player-b"}, 9)
		require.NoError(t, err)
		assert.Equal(t, 1, newcomer)
	})
}

func TestMatchmaker_Leave(t *testing.T) {
	// Given: a queued participant
	matchmaker, _, _ := newTestMatchmaker(0)
	_, err := matchmaker.Join(&entity.Player{ID: "player-a"}, 9)
	require.NoError(t, err)

	// When: the participant leaves, twice
	matchmaker.Leave("player-a")
	matchmaker.Leave("player-a")

	// Then: the second leave is a harmless no-op
	assert.False(t, matchmaker.Queued("player-a"))

	// Then: leaving without ever joining is also fine
	matchmaker.Leave("stranger")
}

func TestMatchmaker_MatchReady(t *testing.T) {
	t.Run("two eligible participants are paired", func(t *testing.T) {
		// Given: two participants queued for the same size past their dwell
		matchmaker, creator, _ := newTestMatchmaker(0)
		a := &entity.Player{ID: "player-a"}
		b := &entity.Player{ID: "player-b"}
		_, err := matchmaker.Join(a, 9)
		require.NoError(t, err)
		_, err = matchmaker.Join(b, 9)
		require.NoError(t, err)

		// When: a matching pass runs
		matchmaker.MatchReady(context.Background())

		// Then: exactly one game is created and the queue is empty
		pairs := creator.created()
		require.Len(t, pairs, 1)
		assert.ElementsMatch(t, []string{"player-a", "player-b"}, []string{pairs[0][0].ID, pairs[0][1].ID})
		assert.Equal(t, 9, creator.sizes[0])
		assert.False(t, matchmaker.Queued("player-a"))
		assert.False(t, matchmaker.Queued("player-b"))
	})

	t.Run("different sizes never pair", func(t *testing.T) {
		matchmaker, creator, _ := newTestMatchmaker(0)
		_, err := matchmaker.Join(&entity.Player{ID: "player-a"}, 9)
		require.NoError(t, err)
		_, err = matchmaker.Join(&entity.Player{ID: "player-b"}, 19)
		require.NoError(t, err)

		matchmaker.MatchReady(context.Background())

		assert.Empty(t, creator.created())
		assert.True(t, matchmaker.Queued("player-a"))
		assert.True(t, matchmaker.Queued("player-b"))
	})

	t.Run("entries inside their dwell window wait", func(t *testing.T) {
		// Given: two fresh entries with a long dwell time
		matchmaker, creator, _ := newTestMatchmaker(time.Hour)
		_, err := matchmaker.Join(&entity.Player{ID: "player-a"}, 9)
		require.NoError(t, err)
		_, err = matchmaker.Join(&entity.Player{ID: "player-b"}, 9)
		require.NoError(t, err)

		// When: a matching pass runs immediately
		matchmaker.MatchReady(context.Background())

		// Then: nobody is paired yet
		assert.Empty(t, creator.created())
		assert.True(t, matchmaker.Queued("player-a"))
	})

	t.Run("disconnected entries are purged before pairing", func(t *testing.T) {
		// Given: three queued participants, the first of which dropped
		matchmaker, creator, presence := newTestMatchmaker(0)
		_, err := matchmaker.Join(&entity.Player{ID: "player-a"}, 9)
		require.NoError(t, err)
		_, err = matchmaker.Join(&entity.Player{ID: "player-b"}, 9)
		require.NoError(t, err)
		_, err = matchmaker.Join(&entity.Player{ID: "player-c"}, 9)
		require.NoError(t, err)
		presence.drop("player-a")

		// When: a matching pass runs
		matchmaker.MatchReady(context.Background())

		// Then: the two live participants pair, the stale entry is gone
		pairs := creator.created()
		require.Len(t, pairs, 1)
		assert.ElementsMatch(t, []string{"player-b", "player-c"}, []string{pairs[0][0].ID, pairs[0][1].ID})
		assert.False(t, matchmaker.Queued("player-a"))
	})

	t.Run("odd participant stays queued", func(t *testing.T) {
		matchmaker, creator, _ := newTestMatchmaker(0)
		_, err := matchmaker.Join(&entity.Player{ID: "player-a"}, 9)
		require.NoError(t, err)

		matchmaker.MatchReady(context.Background())

		assert.Empty(t, creator.created())
		assert.True(t, matchmaker.Queued("player-a"))
	})
}

func TestMatchmaker_Run_StopsOnContextCancel(t *testing.T) {
	matchmaker, _, _ := newTestMatchmaker(0)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		matchmaker.Run(ctx)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("matchmaker did not stop after context cancellation")
	}
}
