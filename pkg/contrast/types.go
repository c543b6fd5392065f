// Package contrast implements the rules engine for Contrast, a
// two-player perfect-information board game played on a 5x5 grid of
// directional tiles.
package contrast

// Board geometry. The board is fixed at 5x5; alternative sizes are
// out of scope.
const (
	Width     = 5
	Height    = 5
	CellCount = Width * Height
)

// Player identifies a side, or the absence of one occupying a cell.
// The integer encoding is load-bearing: it is baked into the
// cell-state index, so it must never be reordered.
type Player uint8

const (
	NoPlayer Player = iota
	Black
	White
)

// String renders the player for logging and CLI output.
func (p Player) String() string {
	switch p {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return "None"
	}
}

// Opponent returns the other side. Calling it on NoPlayer is a
// programmer error and returns NoPlayer.
func (p Player) Opponent() Player {
	switch p {
	case Black:
		return White
	case White:
		return Black
	default:
		return NoPlayer
	}
}

// TileType is the directional tile occupying a cell, which governs
// the movement directions available to a piece standing on it. Like
// Player, the integer encoding is load-bearing.
type TileType uint8

const (
	NoTile TileType = iota
	BlackTile
	GrayTile
)

func (t TileType) String() string {
	switch t {
	case BlackTile:
		return "Black"
	case GrayTile:
		return "Gray"
	default:
		return "None"
	}
}

// Cell holds an occupant and a tile. The two dimensions are
// orthogonal: any combination is valid.
type Cell struct {
	Occupant Player
	Tile     TileType
}

// Code returns the cell's single-digit base-9 encoding
// (occupant*3+tile), used by both the N-tuple index formula and the
// 29-element external array.
func (c Cell) Code() int {
	return int(c.Occupant)*3 + int(c.Tile)
}

// CellFromCode is the inverse of Cell.Code.
func CellFromCode(code int) (Cell, bool) {
	if code < 0 || code > 8 {
		return Cell{}, false
	}
	return Cell{Occupant: Player(code / 3), Tile: TileType(code % 3)}, true
}

// TileInventory tracks a player's remaining placeable tiles.
type TileInventory struct {
	Black int // 0..3
	Gray  int // 0..1
}

// InitialInventory is the per-player starting stock.
func InitialInventory() TileInventory {
	return TileInventory{Black: 3, Gray: 1}
}

// Board is a row-major array of cells, linearised as i = y*Width+x.
type Board [CellCount]Cell

// At returns the cell at (x,y). Callers are expected to keep x,y in
// range; unchecked indexing keeps this off the hot path's cost.
func (b *Board) At(x, y int) Cell {
	return b[y*Width+x]
}

// Set writes the cell at (x,y).
func (b *Board) Set(x, y int, c Cell) {
	b[y*Width+x] = c
}

// InitialBoard returns the starting layout: Black occupies row 0,
// White occupies row Height-1, no tiles are placed.
func InitialBoard() Board {
	var b Board
	for x := 0; x < Width; x++ {
		b.Set(x, 0, Cell{Occupant: Black})
		b.Set(x, Height-1, Cell{Occupant: White})
	}
	return b
}

// GameState is the single mutable entity rules act on. It is cheap to
// copy by value (a Board, the side to move and three small inventory
// structs), which is the
// idiomatic way to explore futures in move application, policy
// look-ahead and MCTS.
type GameState struct {
	Board     Board
	ToMove    Player
	Inventory [3]TileInventory // indexed by Player; NoPlayer's slot is unused
}

// InitialState returns the starting position with Black to move.
func InitialState() GameState {
	return GameState{
		Board:  InitialBoard(),
		ToMove: Black,
		Inventory: [3]TileInventory{
			Black: InitialInventory(),
			White: InitialInventory(),
		},
	}
}

// InventoryOf returns the inventory for the given player by value.
func (s *GameState) InventoryOf(p Player) TileInventory {
	return s.Inventory[p]
}

// Move is a single ply: a motion from (Sx,Sy) to (Dx,Dy), with an
// optional independent tile placement at (Tx,Ty). PlaceTile is false
// for a base move.
type Move struct {
	Sx, Sy    int
	Dx, Dy    int
	PlaceTile bool
	Tx, Ty    int
	Tile      TileType
}

// Equal reports whether two moves are identical field-by-field, the
// definition of "legal" used by callers validating an externally
// supplied move against LegalMoves.
func (m Move) Equal(o Move) bool {
	if m.Sx != o.Sx || m.Sy != o.Sy || m.Dx != o.Dx || m.Dy != o.Dy {
		return false
	}
	if m.PlaceTile != o.PlaceTile {
		return false
	}
	if !m.PlaceTile {
		return true
	}
	return m.Tx == o.Tx && m.Ty == o.Ty && m.Tile == o.Tile
}

// MoveList accumulates legal moves for a state. It may be reused
// between LegalMoves calls to avoid reallocating the backing array on
// every ply.
type MoveList struct {
	Moves []Move
}

// Reset clears the list for reuse while keeping its backing array.
func (ml *MoveList) Reset() {
	ml.Moves = ml.Moves[:0]
}

func (ml *MoveList) push(m Move) {
	ml.Moves = append(ml.Moves, m)
}

// Len is a convenience wrapper for len(ml.Moves).
func (ml *MoveList) Len() int {
	return len(ml.Moves)
}
