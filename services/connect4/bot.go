package connect4

// PreferenceOrder returns the columns of a board of the given width ordered
// from the center outwards, left side first: [3 2 4 1 5 0 6] for 7 columns.
func PreferenceOrder(cols int) []int {
	order := make([]int, 0, cols)
	center := cols / 2
	if cols > 0 {
		order = append(order, center)
	}
	for offset := 1; len(order) < cols; offset++ {
		if c := center - offset; c >= 0 {
			order = append(order, c)
		}
		if c := center + offset; c < cols {
			order = append(order, c)
		}
	}
	return order
}

// ChooseMove picks a column for me: win in one, else block the opponent's
// win in one, else the first playable column from the center out.
// ok is false only when the board has no playable column.
func ChooseMove(b *Board, me, opponent Player) (col int, ok bool) {
	if c, found := b.FindWinningMove(me); found {
		return c, true
	}
	if c, found := b.FindWinningMove(opponent); found {
		return c, true
	}
	for _, c := range PreferenceOrder(b.Cols()) {
		if b.IsValidMove(c) {
			return c, true
		}
	}
	return -1, false
}
