package goban

import (
	"math/rand"
	"strconv"
	"sync"

	"github.com/gobanhq/goban-backend/internal/entity"
)

// zobristTable holds one 64-bit key per (cell, color) pair for a given board
// size. XOR-ing a key in and out again cancels, which is what makes
// incremental updates work and makes the hash independent of move order.
type zobristTable struct {
	size int
	keys [][2]uint64
}

var (
	tablesMu sync.Mutex
	tables   = make(map[int]*zobristTable)
)

// tableFor returns the shared key table for a board size, building it on
// first use. Keys are seeded deterministically per size so that fingerprints
// are stable within a process.
func tableFor(size int) *zobristTable {
	tablesMu.Lock()
	defer tablesMu.Unlock()

	if table, ok := tables[size]; ok {
		return table
	}

	rng := rand.New(rand.NewSource(int64(size))) //nolint: gosec // fingerprints, not secrets
	table := &zobristTable{
		size: size,
		keys: make([][2]uint64, size*size),
	}
	for i := range table.keys {
		table.keys[i][0] = rng.Uint64()
		table.keys[i][1] = rng.Uint64()
	}

	tables[size] = table

	return table
}

func colorIndex(color string) int {
	if color == entity.PlayerBlack {
		return 0
	}
	return 1
}

// HashBoard computes the full fingerprint of a board. The empty board hashes
// to zero, the identity of the XOR algebra.
func HashBoard(board [][]string) uint64 {
	size := len(board)
	table := tableFor(size)

	var hash uint64
	for y := range board {
		for x, cell := range board[y] {
			if cell == entity.EmptyCell {
				continue
			}
			hash ^= table.keys[y*size+x][colorIndex(cell)]
		}
	}

	return hash
}

// UpdateHash applies a single cell change to an existing fingerprint in O(1):
// the old occupant's key is combined out, the new occupant's key combined in.
func UpdateHash(hash uint64, size, x, y int, oldColor, newColor string) uint64 {
	table := tableFor(size)

	if oldColor != entity.EmptyCell {
		hash ^= table.keys[y*size+x][colorIndex(oldColor)]
	}
	if newColor != entity.EmptyCell {
		hash ^= table.keys[y*size+x][colorIndex(newColor)]
	}

	return hash
}

// HashKey renders a fingerprint in its canonical comparable form for set
// membership tests.
func HashKey(hash uint64) string {
	return strconv.FormatUint(hash, 16)
}
