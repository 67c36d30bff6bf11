package goban

import "github.com/gobanhq/goban-backend/internal/entity"

// FindGroup returns the maximal set of same-color stones connected to (x,y)
// via 4-adjacency. Returns nil if the cell does not hold the given color.
func FindGroup(board [][]string, x, y int, color string) []entity.Point {
	size := len(board)
	if !onBoard(size, x, y) || board[y][x] != color || color == entity.EmptyCell {
		return nil
	}

	visited := make(map[entity.Point]struct{})
	start := entity.Point{X: x, Y: y}
	visited[start] = struct{}{}

	group := []entity.Point{start}
	queue := []entity.Point{start}
	for len(queue) > 0 {
		point := queue[0]
		queue = queue[1:]

		for _, next := range neighbors(size, point.X, point.Y) {
			if _, seen := visited[next]; seen {
				continue
			}
			if board[next.Y][next.X] != color {
				continue
			}
			visited[next] = struct{}{}
			group = append(group, next)
			queue = append(queue, next)
		}
	}

	return group
}

// HasLiberty reports whether any cell adjacent to the group is empty.
func HasLiberty(board [][]string, group []entity.Point) bool {
	size := len(board)
	for _, point := range group {
		for _, next := range neighbors(size, point.X, point.Y) {
			if board[next.Y][next.X] == entity.EmptyCell {
				return true
			}
		}
	}
	return false
}

// FindCapturedGroups collects the opponent groups adjacent to a stone just
// placed at (x,y) that have no liberties left. Groups are deduplicated so
// each is examined once.
func FindCapturedGroups(board [][]string, x, y int, placedColor string) [][]entity.Point {
	size := len(board)
	opponent := entity.Opponent(placedColor)

	examined := make(map[entity.Point]struct{})

	var captured [][]entity.Point
	for _, next := range neighbors(size, x, y) {
		if board[next.Y][next.X] != opponent {
			continue
		}
		if _, seen := examined[next]; seen {
			continue
		}

		group := FindGroup(board, next.X, next.Y, opponent)
		for _, point := range group {
			examined[point] = struct{}{}
		}

		if !HasLiberty(board, group) {
			captured = append(captured, group)
		}
	}

	return captured
}
