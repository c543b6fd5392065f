// Package ntuple implements the N-tuple linear evaluator: a fixed
// catalogue of local board patterns, an index encoding that folds in
// tile inventories, and TD(0)-trained weight tables.
package ntuple

import "github.com/cwfinch/contrast/pkg/contrast"

// CellsPerPattern is the number of board cells each catalogue pattern
// covers.
const CellsPerPattern = 9

// TileStates is the number of (black,gray) inventory combinations for
// one player: black in 0..3, gray in 0..1 packed as black+4*gray.
const TileStates = 8

// Pattern is a subset of board cells that forms one N-tuple feature.
// The reference catalogue below always uses CellsPerPattern cells; the
// field is a slice rather than a fixed array so tests and alternative
// catalogues can exercise DenseWeights with a footprint small enough
// to allocate (a 9-cell pattern's 9^9*64 states never fits densely).
// The catalogue below is compiled into the code and is part of the
// model's identity: changing it changes weight-file semantics.
type Pattern struct {
	Cells []int
}

// catalogue is the reference 12-pattern set: four horizontal bands,
// six overlapping 3x3 squares, one L-shape (top row plus left column)
// and one T-shape (top row plus centre column), covering the 5x5
// board from multiple local perspectives.
var catalogue = []Pattern{
	{Cells: []int{0, 1, 2, 3, 4, 5, 6, 7, 8}},
	{Cells: []int{5, 6, 7, 8, 9, 10, 11, 12, 13}},
	{Cells: []int{10, 11, 12, 13, 14, 15, 16, 17, 18}},
	{Cells: []int{15, 16, 17, 18, 19, 20, 21, 22, 23}},

	{Cells: []int{0, 1, 2, 5, 6, 7, 10, 11, 12}},
	{Cells: []int{1, 2, 3, 6, 7, 8, 11, 12, 13}},
	{Cells: []int{5, 6, 7, 10, 11, 12, 15, 16, 17}},
	{Cells: []int{6, 7, 8, 11, 12, 13, 16, 17, 18}},
	{Cells: []int{10, 11, 12, 15, 16, 17, 20, 21, 22}},
	{Cells: []int{11, 12, 13, 16, 17, 18, 21, 22, 23}},

	{Cells: []int{0, 1, 2, 3, 4, 5, 10, 15, 20}},
	{Cells: []int{0, 1, 2, 3, 4, 7, 12, 17, 22}},
}

// Catalogue returns the reference pattern set. Left-right flip is
// handled by canonicalising the board before indexing, not by adding
// mirrored patterns to the catalogue.
func Catalogue() []Pattern {
	return catalogue
}

// EncodeInventory packs one player's tile counts into 0..7.
func EncodeInventory(inv contrast.TileInventory) int {
	return inv.Black + 4*inv.Gray
}

// NumStates is the total number of distinct indices a pattern can
// produce: 9^9 board configurations times 64 tile-inventory
// combinations. This exceeds what a dense table can hold in memory
// (see SparseWeights); it is surfaced here so callers can budget.
func (p Pattern) NumStates() int64 {
	n := int64(1)
	for range p.Cells {
		n *= 9
	}
	return n * int64(TileStates*TileStates)
}

// ToIndex computes p's feature index for a canonicalised board and
// the two players' inventories. Two states with identical cell codes
// at p's indices and identical encoded inventories always produce the
// same index, and vice versa.
func (p Pattern) ToIndex(b *contrast.Board, blackInv, whiteInv contrast.TileInventory) int64 {
	var idx int64
	for _, cellIdx := range p.Cells {
		idx = idx*9 + int64(b[cellIdx].Code())
	}
	blackTile := EncodeInventory(blackInv)
	whiteTile := EncodeInventory(whiteInv)
	tileIdx := int64(blackTile*TileStates + whiteTile)
	return idx*int64(TileStates*TileStates) + tileIdx
}
