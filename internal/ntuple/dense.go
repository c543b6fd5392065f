package ntuple

import "fmt"

// maxDenseStatesPerPattern bounds DenseWeights allocation so a
// mistaken reference-catalogue construction fails fast instead of
// attempting a multi-gigabyte allocation. Reduced test/demo
// catalogues (e.g. 2x2 patterns) stay well under this.
const maxDenseStatesPerPattern = 1 << 24

// DenseWeights is a flat []float32-per-pattern WeightTable, the
// natural representation when a catalogue's per-pattern state count
// is small enough to hold densely.
type DenseWeights struct {
	tables [][]float32
}

// NewDenseWeights allocates a dense table for each pattern's full
// NumStates(), initialised to initial. Returns an error if any
// pattern's state count exceeds maxDenseStatesPerPattern.
func NewDenseWeights(patterns []Pattern, initial float32) (*DenseWeights, error) {
	tables := make([][]float32, len(patterns))
	for i, p := range patterns {
		n := p.NumStates()
		if n > maxDenseStatesPerPattern {
			return nil, fmt.Errorf("pattern %d has %d states, exceeds dense limit %d; use SparseWeights", i, n, maxDenseStatesPerPattern)
		}
		row := make([]float32, n)
		for j := range row {
			row[j] = initial
		}
		tables[i] = row
	}
	return &DenseWeights{tables: tables}, nil
}

func (d *DenseWeights) NumPatterns() int { return len(d.tables) }

func (d *DenseWeights) Get(pattern int, idx int64) float32 {
	return d.tables[pattern][idx]
}

func (d *DenseWeights) Add(pattern int, idx int64, delta float32) {
	d.tables[pattern][idx] += delta
}

// Count reports the fixed row length for pattern (a dense table has
// every state materialised).
func (d *DenseWeights) Count(pattern int) int {
	return len(d.tables[pattern])
}

// Clone deep-copies every row.
func (d *DenseWeights) Clone() WeightTable {
	tables := make([][]float32, len(d.tables))
	for i, row := range d.tables {
		clone := make([]float32, len(row))
		copy(clone, row)
		tables[i] = clone
	}
	return &DenseWeights{tables: tables}
}

// Lengths returns the length of each pattern's dense row, used by
// persistence to write the binary weight file format.
func (d *DenseWeights) Lengths() []int {
	lens := make([]int, len(d.tables))
	for i, row := range d.tables {
		lens[i] = len(row)
	}
	return lens
}

// Row exposes a pattern's raw weight slice for bulk I/O.
func (d *DenseWeights) Row(pattern int) []float32 {
	return d.tables[pattern]
}
