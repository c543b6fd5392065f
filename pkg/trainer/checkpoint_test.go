package trainer

import (
	"path/filepath"
	"testing"

	"github.com/cwfinch/contrast/internal/ntuple"
	"github.com/cwfinch/contrast/pkg/contrast"
)

func TestSaveCheckpointRoundTrips(t *testing.T) {
	dir := t.TempDir()

	net := ntuple.NewNetwork()
	initial := contrast.InitialState()
	net.TDUpdate(&initial, 1.0, 0.1)
	before := net.Evaluate(&initial)

	if err := SaveCheckpoint(dir, net); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(dir, "contrast-*.weights"))
	if err != nil {
		t.Fatalf("Glob: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected exactly one checkpoint file, found %d", len(matches))
	}

	loaded, err := LoadCheckpoint(matches[0])
	if err != nil {
		t.Fatalf("LoadCheckpoint: %v", err)
	}
	if got := loaded.Evaluate(&initial); got != before {
		t.Fatalf("loaded network evaluates to %v, want %v", got, before)
	}
}

func TestLoadCheckpointReportsMissingFile(t *testing.T) {
	if _, err := LoadCheckpoint(filepath.Join(t.TempDir(), "does-not-exist.weights")); err == nil {
		t.Fatal("expected an error loading a nonexistent checkpoint")
	}
}
