package connect4

import (
	game_constants "Fourline/constants/game"
)

// Player identifies the owner of a cell. Empty marks a free cell.
type Player int

const (
	Empty     Player = 0
	PlayerOne Player = 1
	PlayerTwo Player = 2
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// Position is the landing cell of a disc.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// LastMove records the most recent disc placed on the board
type LastMove struct {
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Player Player `json:"player"`
}

var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal down-right
	{1, -1}, // diagonal down-left
}

/*
 * 'Board' holds the grid of a single match. Row 0 is the top row, so a disc
 * dropped in a column lands in the highest row index that is still empty.
 * A Board is not safe for concurrent use, its owner serializes access.
 */
type Board struct {
	rows     int
	cols     int
	cells    [][]Player
	lastMove *LastMove
}

// NewBoard creates an empty board. Non-positive dimensions fall back to 6x7.
func NewBoard(rows, cols int) *Board {
	if rows <= 0 {
		rows = game_constants.DEFAULT_ROWS
	}
	if cols <= 0 {
		cols = game_constants.DEFAULT_COLS
	}
	cells := make([][]Player, rows)
	for r := range cells {
		cells[r] = make([]Player, cols)
	}
	return &Board{rows: rows, cols: cols, cells: cells}
}

func (b *Board) Rows() int { return b.rows }

func (b *Board) Cols() int { return b.cols }

// At returns the value of a cell, Empty when out of bounds
func (b *Board) At(row, col int) Player {
	if !b.inBounds(row, col) {
		return Empty
	}
	return b.cells[row][col]
}

// LastMove returns a copy of the last placed disc, or nil on an empty board.
func (b *Board) LastMove() *LastMove {
	if b.lastMove == nil {
		return nil
	}
	lm := *b.lastMove
	return &lm
}

// Clone returns a deep copy that can be mutated freely.
func (b *Board) Clone() *Board {
	cp := &Board{rows: b.rows, cols: b.cols, cells: b.Cells()}
	cp.lastMove = b.LastMove()
	return cp
}

// Cells returns a copy of the grid, top row first
func (b *Board) Cells() [][]Player {
	out := make([][]Player, b.rows)
	for r := range b.cells {
		out[r] = append([]Player(nil), b.cells[r]...)
	}
	return out
}

// DropDisc places a disc for the player in the lowest empty cell of col.
// ok is false when the column is out of range or already full.
func (b *Board) DropDisc(col int, player Player) (pos Position, ok bool) {
	if col < 0 || col >= b.cols {
		return Position{}, false
	}
	for r := b.rows - 1; r >= 0; r-- {
		if b.cells[r][col] == Empty {
			b.cells[r][col] = player
			b.lastMove = &LastMove{Row: r, Col: col, Player: player}
			return Position{Row: r, Col: col}, true
		}
	}
	return Position{}, false
}

// IsValidMove reports whether col is in range and its top cell is free.
func (b *Board) IsValidMove(col int) bool {
	if col < 0 || col >= b.cols {
		return false
	}
	return b.cells[0][col] == Empty
}

// ValidMoves lists the playable columns, left to right.
func (b *Board) ValidMoves() []int {
	moves := make([]int, 0, b.cols)
	for c := 0; c < b.cols; c++ {
		if b.IsValidMove(c) {
			moves = append(moves, c)
		}
	}
	return moves
}

// CheckWinAt reports whether the disc at (row, col) is part of a line of at
// least CONNECT_N identical discs in any direction.
func (b *Board) CheckWinAt(row, col int) bool {
	if !b.inBounds(row, col) {
		return false
	}
	player := b.cells[row][col]
	if player == Empty {
		return false
	}

	for _, d := range directions {
		count := 1 + b.countRun(row, col, d[0], d[1], player) + b.countRun(row, col, -d[0], -d[1], player)
		if count >= game_constants.CONNECT_N {
			return true
		}
	}
	return false
}

func (b *Board) countRun(row, col, dr, dc int, player Player) int {
	count := 0
	r, c := row+dr, col+dc
	for b.inBounds(r, c) && b.cells[r][c] == player {
		count++
		r += dr
		c += dc
	}
	return count
}

// CheckLastMoveWin reports whether the last placed disc completed a line
func (b *Board) CheckLastMoveWin() bool {
	if b.lastMove == nil {
		return false
	}
	return b.CheckWinAt(b.lastMove.Row, b.lastMove.Col)
}

// CheckDraw reports whether no column accepts a move (top row full).
func (b *Board) CheckDraw() bool {
	for _, v := range b.cells[0] {
		if v == Empty {
			return false
		}
	}
	return true
}

// FindWinningMove returns the leftmost column where player wins immediately.
// The board itself is never modified, every candidate is tried on a clone.
func (b *Board) FindWinningMove(player Player) (int, bool) {
	for c := 0; c < b.cols; c++ {
		if !b.IsValidMove(c) {
			continue
		}
		sim := b.Clone()
		pos, ok := sim.DropDisc(c, player)
		if ok && sim.CheckWinAt(pos.Row, pos.Col) {
			return c, true
		}
	}
	return -1, false
}

func (b *Board) inBounds(r, c int) bool {
	return r >= 0 && r < b.rows && c >= 0 && c < b.cols
}
