// Package movetable holds the precomputed per-(tile,origin) ray table
// used by the rules engine to walk moves without per-call bounds
// checks. The table encodes geometry only: it has no notion of who
// occupies a cell.
package movetable

import "sync"

const (
	width     = 5
	height    = 5
	cellCount = width * height

	// MaxRay is the longest possible ray on a 5x5 board.
	MaxRay = 4
	// MaxDirections is the widest direction fan (Gray tiles: 8-way).
	MaxDirections = 8
	// TileTypeCount mirrors contrast.TileType's three values.
	TileTypeCount = 3
)

// Direction holds the linear-index offsets reached at step 1, 2, 3...
// along one ray from some origin, until the board edge.
type Direction struct {
	Steps  int
	Offset [MaxRay]int // relative linear-index deltas, valid up to Steps
}

// Entry is the move-table row for one (tile, origin) pair.
type Entry struct {
	DirCount int
	Dirs     [MaxDirections]Direction
}

var (
	once  sync.Once
	table [TileTypeCount][cellCount]Entry
)

// deltasFor returns the (dx,dy) direction set for a tile type, in the
// same order the original code generator emits them: orthogonal for
// None, diagonal for Black, both for Gray.
func deltasFor(tileIdx int) [][2]int {
	switch tileIdx {
	case 0: // None: 4 orthogonal
		return [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	case 1: // Black: 4 diagonal
		return [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	default: // Gray: 8-way
		return [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	}
}

func build() {
	for tileIdx := 0; tileIdx < TileTypeCount; tileIdx++ {
		dirs := deltasFor(tileIdx)
		for origin := 0; origin < cellCount; origin++ {
			x := origin % width
			y := origin / width
			var entry Entry
			entry.DirCount = len(dirs)
			for di, d := range dirs {
				var dir Direction
				cx, cy := x, y
				for step := 0; step < MaxRay; step++ {
					cx += d[0]
					cy += d[1]
					if cx < 0 || cx >= width || cy < 0 || cy >= height {
						break
					}
					relIdx := (cy*width + cx) - (y*width + x)
					dir.Offset[dir.Steps] = relIdx
					dir.Steps++
				}
				entry.Dirs[di] = dir
			}
			table[tileIdx][origin] = entry
		}
	}
}

// Table returns the (tile,origin)-keyed move table, building it once
// on first use. The result is immutable and safe to share across
// goroutines without further synchronisation.
func Table() *[TileTypeCount][cellCount]Entry {
	once.Do(build)
	return &table
}

// Lookup is a convenience accessor for Table()[tileIdx][origin].
func Lookup(tileIdx, origin int) Entry {
	return Table()[tileIdx][origin]
}
