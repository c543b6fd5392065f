package trainer

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cwfinch/contrast/internal/ntuple"
)

// SaveCheckpoint writes net's sparse weight table to a timestamped
// file under dir, creating dir if needed. Sparse is the format
// produced by ntuple.NewNetwork, which is what a Trainer trains.
func SaveCheckpoint(dir string, net *ntuple.Network) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating checkpoint directory: %w", err)
	}

	path := filepath.Join(dir, checkpointName("contrast", time.Now()))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating checkpoint file: %w", err)
	}
	defer f.Close()

	if err := ntuple.SaveSparse(f, net); err != nil {
		return fmt.Errorf("writing checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a sparse weight file written by SaveCheckpoint
// or ntuple.SaveSparse directly.
func LoadCheckpoint(path string) (*ntuple.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint file: %w", err)
	}
	defer f.Close()

	net, err := ntuple.LoadSparse(f)
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint: %w", err)
	}
	return net, nil
}
