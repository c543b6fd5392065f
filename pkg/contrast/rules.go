package contrast

import "github.com/cwfinch/contrast/internal/movetable"

// LegalMoves enumerates every legal move for the side to move in s,
// appending to out.Moves. out is reset first; passing the same
// *MoveList across plies avoids reallocating its backing array.
func LegalMoves(s *GameState, out *MoveList) {
	out.Reset()

	p := s.ToMove
	b := &s.Board

	var baseMoves []Move
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			cell := b.At(x, y)
			if cell.Occupant != p {
				continue
			}

			origin := y*Width + x
			entry := movetable.Lookup(int(cell.Tile), origin)

			for di := 0; di < entry.DirCount; di++ {
				dir := entry.Dirs[di]
				if dir.Steps == 0 {
					continue
				}

				encounteredFriend := false
			stepLoop:
				for step := 0; step < dir.Steps; step++ {
					targetIdx := origin + dir.Offset[step]
					ty := targetIdx / Width
					tx := targetIdx % Width
					target := b.At(tx, ty)

					switch {
					case target.Occupant == NoPlayer:
						if !encounteredFriend && step != 0 {
							// Empty but unreachable: no prior friend to
							// jump over yet, and this isn't the first step.
							break stepLoop
						}
						baseMoves = append(baseMoves, Move{Sx: x, Sy: y, Dx: tx, Dy: ty})
						break stepLoop
					case target.Occupant == p:
						encounteredFriend = true
					default: // opponent blocks the ray
						break stepLoop
					}
				}
			}
		}
	}

	inv := s.InventoryOf(p)
	for _, base := range baseMoves {
		out.push(base)

		if inv.Black > 0 {
			appendPlacements(out, base, b, BlackTile)
		}
		if inv.Gray > 0 {
			appendPlacements(out, base, b, GrayTile)
		}
	}
}

// appendPlacements emits one move per empty, tile-free cell (other
// than the move's own destination) with a placement of kind tile. The
// mover's origin counts as empty here even though the pre-move board
// still shows it occupied, since the piece has already vacated it by
// the time a tile is placed.
func appendPlacements(out *MoveList, base Move, b *Board, tile TileType) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if x == base.Dx && y == base.Dy {
				continue
			}
			cell := b.At(x, y)
			occupied := cell.Occupant != NoPlayer && (x != base.Sx || y != base.Sy)
			if occupied || cell.Tile != NoTile {
				continue
			}
			m := base
			m.PlaceTile = true
			m.Tx, m.Ty = x, y
			m.Tile = tile
			out.push(m)
		}
	}
}

// ApplyMove returns the state resulting from applying m to s. It does
// not validate m against LegalMoves; callers must do that first (see
// RuleError InvalidMove).
func ApplyMove(s GameState, m Move) GameState {
	next := s
	b := &next.Board

	origin := b.At(m.Sx, m.Sy)
	dest := b.At(m.Dx, m.Dy)
	dest.Occupant = origin.Occupant
	b.Set(m.Dx, m.Dy, dest)

	origin.Occupant = NoPlayer
	b.Set(m.Sx, m.Sy, origin)

	if m.PlaceTile {
		placed := b.At(m.Tx, m.Ty)
		placed.Tile = m.Tile
		b.Set(m.Tx, m.Ty, placed)

		inv := next.Inventory[next.ToMove]
		switch m.Tile {
		case BlackTile:
			inv.Black--
		case GrayTile:
			inv.Gray--
		}
		next.Inventory[next.ToMove] = inv
	}

	next.ToMove = next.ToMove.Opponent()
	return next
}

// ValidateMove reports an InvalidMove RuleError if m is not present,
// field-by-field, in s's legal move list.
func ValidateMove(s *GameState, m Move) error {
	var ml MoveList
	LegalMoves(s, &ml)
	for _, cand := range ml.Moves {
		if cand.Equal(m) {
			return nil
		}
	}
	return newRuleError(InvalidMove, "move %+v is not legal for %s to move", m, s.ToMove)
}

// GoalRank returns the row a player wins by occupying.
func GoalRank(p Player) int {
	if p == Black {
		return Height - 1
	}
	return 0
}

// IsWin reports whether p already occupies any cell of its goal rank.
func IsWin(s *GameState, p Player) bool {
	row := GoalRank(p)
	for x := 0; x < Width; x++ {
		if s.Board.At(x, row).Occupant == p {
			return true
		}
	}
	return false
}

// IsLoss reports whether the side to move has no legal moves. Loss is
// always observed from the side to move: IsLoss(s, p) is only
// meaningful when p == s.ToMove.
func IsLoss(s *GameState, p Player) bool {
	if s.ToMove != p {
		return false
	}
	var ml MoveList
	LegalMoves(s, &ml)
	return ml.Len() == 0
}
