package ntuple

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// WeightsMismatchError reports that a weight file's pattern count did
// not match the catalogue built in memory. The network passed to
// Load is left untouched when this is returned.
type WeightsMismatchError struct {
	FileCount, WantCount int
}

func (e *WeightsMismatchError) Error() string {
	return fmt.Sprintf("weights file has %d patterns, catalogue has %d", e.FileCount, e.WantCount)
}

// Save writes n's dense weight table in this package's binary format:
// a u64 pattern count, then per pattern a u64 length followed by that
// many little-endian f32 weights. Only DenseWeights tables can be
// persisted in this format; sparse tables use SaveSparse/LoadSparse
// instead (see that pair's doc comment).
func Save(w io.Writer, n *Network) error {
	dense, ok := n.Weights.(*DenseWeights)
	if !ok {
		return fmt.Errorf("network's weight table is %T, not *DenseWeights; use SaveSparse", n.Weights)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(dense.NumPatterns())); err != nil {
		return fmt.Errorf("writing pattern count: %w", err)
	}
	for i := 0; i < dense.NumPatterns(); i++ {
		row := dense.Row(i)
		if err := binary.Write(w, binary.LittleEndian, uint64(len(row))); err != nil {
			return fmt.Errorf("writing pattern %d length: %w", i, err)
		}
		if err := binary.Write(w, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("writing pattern %d weights: %w", i, err)
		}
	}
	return nil
}

// SaveFile opens path for writing and calls Save.
func SaveFile(path string, n *Network) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating weights file: %w", err)
	}
	defer f.Close()
	return Save(f, n)
}

// Load reads the binary format written by Save into a fresh Network
// built from the in-memory catalogue. If the file's pattern count
// does not match len(Catalogue()), a *WeightsMismatchError is
// returned and no network is constructed.
func Load(r io.Reader) (*Network, error) {
	var fileCount uint64
	if err := binary.Read(r, binary.LittleEndian, &fileCount); err != nil {
		return nil, fmt.Errorf("reading pattern count: %w", err)
	}

	patterns := Catalogue()
	if int(fileCount) != len(patterns) {
		return nil, &WeightsMismatchError{FileCount: int(fileCount), WantCount: len(patterns)}
	}

	tables := make([][]float32, fileCount)
	for i := range tables {
		var length uint64
		if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
			return nil, fmt.Errorf("reading pattern %d length: %w", i, err)
		}
		row := make([]float32, length)
		if err := binary.Read(r, binary.LittleEndian, row); err != nil {
			return nil, fmt.Errorf("reading pattern %d weights: %w", i, err)
		}
		tables[i] = row
	}

	return &Network{Patterns: patterns, Weights: &DenseWeights{tables: tables}}, nil
}

// LoadFile opens path for reading and calls Load.
func LoadFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weights file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// SaveSparse and LoadSparse extend the reference binary format to the
// hash-coded table NewNetwork uses by default: the pattern count
// header is unchanged, but each pattern's body is a u64 entry count
// followed by that many (u64 index, f32 value) pairs instead of a
// dense run of length-many floats. Files written by SaveSparse are
// not compatible with Load and vice versa.
func SaveSparse(w io.Writer, n *Network) error {
	sparse, ok := n.Weights.(*SparseWeights)
	if !ok {
		return fmt.Errorf("network's weight table is %T, not *SparseWeights; use Save", n.Weights)
	}

	if err := binary.Write(w, binary.LittleEndian, uint64(sparse.NumPatterns())); err != nil {
		return fmt.Errorf("writing pattern count: %w", err)
	}
	for i, table := range sparse.tables {
		if err := binary.Write(w, binary.LittleEndian, uint64(len(table))); err != nil {
			return fmt.Errorf("writing pattern %d entry count: %w", i, err)
		}
		for idx, v := range table {
			if err := binary.Write(w, binary.LittleEndian, uint64(idx)); err != nil {
				return fmt.Errorf("writing pattern %d index: %w", i, err)
			}
			if err := binary.Write(w, binary.LittleEndian, v); err != nil {
				return fmt.Errorf("writing pattern %d value: %w", i, err)
			}
		}
	}
	return nil
}

// LoadSparse is the inverse of SaveSparse, validating the pattern
// count against the in-memory catalogue the same way Load does.
func LoadSparse(r io.Reader) (*Network, error) {
	var fileCount uint64
	if err := binary.Read(r, binary.LittleEndian, &fileCount); err != nil {
		return nil, fmt.Errorf("reading pattern count: %w", err)
	}

	patterns := Catalogue()
	if int(fileCount) != len(patterns) {
		return nil, &WeightsMismatchError{FileCount: int(fileCount), WantCount: len(patterns)}
	}

	table := NewSparseWeights(len(patterns), InitialWeight(len(patterns)))
	for i := 0; i < len(patterns); i++ {
		var entries uint64
		if err := binary.Read(r, binary.LittleEndian, &entries); err != nil {
			return nil, fmt.Errorf("reading pattern %d entry count: %w", i, err)
		}
		for e := uint64(0); e < entries; e++ {
			var idx uint64
			var v float32
			if err := binary.Read(r, binary.LittleEndian, &idx); err != nil {
				return nil, fmt.Errorf("reading pattern %d index: %w", i, err)
			}
			if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("reading pattern %d value: %w", i, err)
			}
			table.tables[i][int64(idx)] = v
		}
	}

	return &Network{Patterns: patterns, Weights: table}, nil
}
