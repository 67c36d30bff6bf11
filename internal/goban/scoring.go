package goban

import (
	"math"

	"github.com/gobanhq/goban-backend/internal/entity"
)

// Score computes the terminal result under area scoring: stones on the board
// plus surrounded territory, with komi added to white. An empty region
// bordered by both colors (or by neither) counts for no one; disputed
// regions are deliberately left neutral rather than resolved as seki.
func Score(game *entity.Game) *entity.Score {
	stones := map[string]int{}
	for y := range game.Board {
		for _, cell := range game.Board[y] {
			if cell != entity.EmptyCell {
				stones[cell]++
			}
		}
	}

	territory := countTerritory(game.Board)

	black := float64(stones[entity.PlayerBlack] + territory[entity.PlayerBlack])
	white := float64(stones[entity.PlayerWhite]+territory[entity.PlayerWhite]) + game.Komi

	score := &entity.Score{
		Black: black,
		White: white,
		Diff:  math.Abs(black - white),
		Komi:  game.Komi,
	}

	switch {
	case black > white:
		score.Winner = entity.PlayerBlack
	case white > black:
		score.Winner = entity.PlayerWhite
	}

	return score
}

// countTerritory partitions the empty cells into maximal connected regions
// and awards each region touched by exactly one color to that color.
func countTerritory(board [][]string) map[string]int {
	territory := map[string]int{}

	visited := make(map[entity.Point]struct{})
	for y := range board {
		for x := range board[y] {
			start := entity.Point{X: x, Y: y}
			if board[y][x] != entity.EmptyCell {
				continue
			}
			if _, seen := visited[start]; seen {
				continue
			}

			region, borders := floodEmptyRegion(board, start, visited)
			if len(borders) == 1 {
				for color := range borders {
					territory[color] += len(region)
				}
			}
		}
	}

	return territory
}

// floodEmptyRegion walks one empty region and collects the stone colors
// adjacent to it.
func floodEmptyRegion(board [][]string, start entity.Point, visited map[entity.Point]struct{}) ([]entity.Point, map[string]struct{}) {
	size := len(board)

	visited[start] = struct{}{}
	region := []entity.Point{start}
	borders := make(map[string]struct{})

	queue := []entity.Point{start}
	for len(queue) > 0 {
		point := queue[0]
		queue = queue[1:]

		for _, next := range neighbors(size, point.X, point.Y) {
			cell := board[next.Y][next.X]
			if cell != entity.EmptyCell {
				borders[cell] = struct{}{}
				continue
			}
			if _, seen := visited[next]; seen {
				continue
			}
			visited[next] = struct{}{}
			region = append(region, next)
			queue = append(queue, next)
		}
	}

	return region, borders
}
