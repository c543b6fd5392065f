package contrast

// Flip returns the horizontal mirror of b (x -> Width-1-x). Tile
// inventories are player-attached, not position-attached, so they are
// untouched by symmetry — callers operate on the Board alone.
func Flip(b Board) Board {
	var out Board
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			out.Set(Width-1-x, y, b.At(x, y))
		}
	}
	return out
}

// less compares two boards by their linearised sequence of cell
// codes, returning true if a sorts before b.
func less(a, b Board) bool {
	for i := 0; i < CellCount; i++ {
		ac, bc := a[i].Code(), b[i].Code()
		if ac != bc {
			return ac < bc
		}
	}
	return false
}

// Canonical returns the lexicographically smaller of {b, Flip(b)}
// under the per-cell code ordering, ties going to the identity. This
// is the only symmetry the evaluator exploits.
func Canonical(b Board) Board {
	flipped := Flip(b)
	if less(flipped, b) {
		return flipped
	}
	return b
}
