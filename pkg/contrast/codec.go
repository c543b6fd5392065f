package contrast

import (
	"fmt"
	"strconv"
	"strings"
)

// ArrayLen is the length of the canonical external state array.
const ArrayLen = 29

// Encode writes s into the 29-element external representation:
// indices 0..24 are row-major cell codes, 25..28 are the two
// players' tile inventories. ToMove is not carried by the array.
func Encode(s *GameState) [ArrayLen]int {
	var out [ArrayLen]int
	for i := 0; i < CellCount; i++ {
		out[i] = s.Board[i].Code()
	}
	out[25] = s.Inventory[Black].Black
	out[26] = s.Inventory[Black].Gray
	out[27] = s.Inventory[White].Black
	out[28] = s.Inventory[White].Gray
	return out
}

// Decode parses the 29-element external representation into a Board
// and inventories, leaving ToMove at its zero value (NoPlayer);
// callers must supply it separately when it matters. Returns an
// ArraySize or OutOfRangeCoord RuleError on invalid input; on error
// the returned state is the zero value and must not be used.
func Decode(a []int) (GameState, error) {
	var s GameState
	if len(a) != ArrayLen {
		return GameState{}, newRuleError(ArraySize, "expected %d elements, got %d", ArrayLen, len(a))
	}
	for i := 0; i < CellCount; i++ {
		cell, ok := CellFromCode(a[i])
		if !ok {
			return GameState{}, newRuleError(OutOfRangeCoord, "cell %d has invalid code %d", i, a[i])
		}
		s.Board[i] = cell
	}
	inv := [4]int{a[25], a[26], a[27], a[28]}
	if inv[0] < 0 || inv[0] > 3 || inv[2] < 0 || inv[2] > 3 {
		return GameState{}, newRuleError(OutOfRangeCoord, "black-tile inventory out of range: %v", inv)
	}
	if inv[1] < 0 || inv[1] > 1 || inv[3] < 0 || inv[3] > 1 {
		return GameState{}, newRuleError(OutOfRangeCoord, "gray-tile inventory out of range: %v", inv)
	}
	s.Inventory[Black] = TileInventory{Black: inv[0], Gray: inv[1]}
	s.Inventory[White] = TileInventory{Black: inv[2], Gray: inv[3]}
	return s, nil
}

// FileToX converts a file letter ('a'..'e') to an x coordinate.
func FileToX(file byte) (int, error) {
	x := int(file) - int('a')
	if x < 0 || x >= Width {
		return 0, newRuleError(OutOfRangeCoord, "file %q out of range", file)
	}
	return x, nil
}

// XToFile is the inverse of FileToX.
func XToFile(x int) byte {
	return byte('a' + x)
}

// RankToY converts a rank digit ('1'..'5', 1 at the bottom) to a y
// coordinate.
func RankToY(rank byte) (int, error) {
	r := int(rank) - int('0')
	if r < 1 || r > Height {
		return 0, newRuleError(OutOfRangeCoord, "rank %q out of range", rank)
	}
	return Height - r, nil
}

// YToRank is the inverse of RankToY.
func YToRank(y int) byte {
	return byte('0' + (Height - y))
}

// ParseCoord parses a two-character coordinate like "a1" or "e5".
func ParseCoord(s string) (x, y int, err error) {
	if len(s) != 2 {
		return 0, 0, newRuleError(OutOfRangeCoord, "coordinate %q must be 2 characters", s)
	}
	x, err = FileToX(s[0])
	if err != nil {
		return 0, 0, err
	}
	y, err = RankToY(s[1])
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// FormatCoord renders (x,y) as a two-character coordinate.
func FormatCoord(x, y int) string {
	return string([]byte{XToFile(x), YToRank(y)})
}

// ParseTileLetter parses a tile-kind letter: 'b'/'B' -> BlackTile,
// 'g'/'G' -> GrayTile.
func ParseTileLetter(c byte) (TileType, error) {
	switch c {
	case 'b', 'B':
		return BlackTile, nil
	case 'g', 'G':
		return GrayTile, nil
	default:
		return NoTile, newRuleError(OutOfRangeCoord, "unknown tile letter %q", c)
	}
}

// ParseMove parses a move literal "<from>,<to>[<tile-coord><color>]",
// e.g. "a1,a2" or "a1,a2c3b".
func ParseMove(literal string) (Move, error) {
	literal = strings.TrimSpace(literal)
	parts := strings.SplitN(literal, ",", 2)
	if len(parts) != 2 {
		return Move{}, newRuleError(OutOfRangeCoord, "move literal %q missing ','", literal)
	}
	from, rest := parts[0], parts[1]
	if len(from) != 2 {
		return Move{}, newRuleError(OutOfRangeCoord, "invalid from-coordinate %q", from)
	}
	sx, sy, err := ParseCoord(from)
	if err != nil {
		return Move{}, err
	}

	if len(rest) < 2 {
		return Move{}, newRuleError(OutOfRangeCoord, "invalid to-coordinate %q", rest)
	}
	dx, dy, err := ParseCoord(rest[:2])
	if err != nil {
		return Move{}, err
	}

	m := Move{Sx: sx, Sy: sy, Dx: dx, Dy: dy}
	if len(rest) == 2 {
		return m, nil
	}

	placement := rest[2:]
	if len(placement) != 3 {
		return Move{}, newRuleError(OutOfRangeCoord, "invalid tile literal %q", placement)
	}
	tx, ty, err := ParseCoord(placement[:2])
	if err != nil {
		return Move{}, err
	}
	tile, err := ParseTileLetter(placement[2])
	if err != nil {
		return Move{}, err
	}
	m.PlaceTile = true
	m.Tx, m.Ty, m.Tile = tx, ty, tile
	return m, nil
}

// FormatMove is the inverse of ParseMove.
func FormatMove(m Move) string {
	s := fmt.Sprintf("%s,%s", FormatCoord(m.Sx, m.Sy), FormatCoord(m.Dx, m.Dy))
	if !m.PlaceTile {
		return s
	}
	letter := byte('b')
	if m.Tile == GrayTile {
		letter = 'g'
	}
	return s + FormatCoord(m.Tx, m.Ty) + string(letter)
}

// FormatBoard renders the board as a human-readable ASCII grid, ranks
// top-to-bottom from Height down to 1.
func FormatBoard(b *Board) string {
	var sb strings.Builder
	for y := 0; y < Height; y++ {
		sb.WriteString(strconv.Itoa(Height - y))
		sb.WriteByte(' ')
		for x := 0; x < Width; x++ {
			cell := b.At(x, y)
			sb.WriteByte(glyph(cell))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  ")
	for x := 0; x < Width; x++ {
		sb.WriteByte(XToFile(x))
		sb.WriteByte(' ')
	}
	return sb.String()
}

func glyph(c Cell) byte {
	switch c.Occupant {
	case Black:
		return 'b'
	case White:
		return 'w'
	}
	switch c.Tile {
	case BlackTile:
		return '#'
	case GrayTile:
		return '.'
	default:
		return '-'
	}
}
