package ntuple

// SparseWeights is a hash-coded WeightTable: only states actually
// visited by evaluation or training allocate a map entry, the rest
// implicitly hold the initial prior. This is the representation
// NewNetwork uses by default, since the reference catalogue's dense
// state count (9^9*64 per pattern) does not fit in memory.
type SparseWeights struct {
	initial float32
	tables  []map[int64]float32
}

// NewSparseWeights allocates an empty sparse table for numPatterns
// patterns, all implicitly holding initial until touched.
func NewSparseWeights(numPatterns int, initial float32) *SparseWeights {
	tables := make([]map[int64]float32, numPatterns)
	for i := range tables {
		tables[i] = make(map[int64]float32)
	}
	return &SparseWeights{initial: initial, tables: tables}
}

func (s *SparseWeights) NumPatterns() int { return len(s.tables) }

func (s *SparseWeights) Get(pattern int, idx int64) float32 {
	if v, ok := s.tables[pattern][idx]; ok {
		return v
	}
	return s.initial
}

func (s *SparseWeights) Add(pattern int, idx int64, delta float32) {
	s.tables[pattern][idx] = s.Get(pattern, idx) + delta
}

// Count reports how many states of one pattern have been touched.
func (s *SparseWeights) Count(pattern int) int {
	return len(s.tables[pattern])
}

// Clone deep-copies every touched entry.
func (s *SparseWeights) Clone() WeightTable {
	tables := make([]map[int64]float32, len(s.tables))
	for i, t := range s.tables {
		clone := make(map[int64]float32, len(t))
		for k, v := range t {
			clone[k] = v
		}
		tables[i] = clone
	}
	return &SparseWeights{initial: s.initial, tables: tables}
}
