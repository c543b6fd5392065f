package contrast

import "testing"

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := InitialState()
	s.Board.Set(1, 2, Cell{Tile: BlackTile})
	s.Inventory[Black] = TileInventory{Black: 2, Gray: 1}

	a := Encode(&s)
	decoded, err := Decode(a[:])
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if decoded.Board != s.Board {
		t.Fatal("decoded board does not match original")
	}
	if decoded.Inventory[Black] != s.Inventory[Black] || decoded.Inventory[White] != s.Inventory[White] {
		t.Fatal("decoded inventories do not match original")
	}

	roundTripped := Encode(&decoded)
	if roundTripped != a {
		t.Fatal("Encode(Decode(a)) != a")
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	_, err := Decode(make([]int, 28))
	if err == nil {
		t.Fatal("expected an ArraySize error")
	}
	re, ok := err.(*RuleError)
	if !ok || re.Kind != ArraySize {
		t.Fatalf("expected ArraySize error, got %v", err)
	}
}

func TestDecodeRejectsOutOfRangeCell(t *testing.T) {
	a := make([]int, ArrayLen)
	a[0] = 9 // only 0..8 valid
	_, err := Decode(a)
	if err == nil {
		t.Fatal("expected an OutOfRangeCoord error")
	}
	re, ok := err.(*RuleError)
	if !ok || re.Kind != OutOfRangeCoord {
		t.Fatalf("expected OutOfRangeCoord error, got %v", err)
	}
}

func TestParseCoordAndFormatCoordRoundTrip(t *testing.T) {
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			s := FormatCoord(x, y)
			gx, gy, err := ParseCoord(s)
			if err != nil {
				t.Fatalf("ParseCoord(%q) returned error: %v", s, err)
			}
			if gx != x || gy != y {
				t.Fatalf("ParseCoord(FormatCoord(%d,%d)) = (%d,%d)", x, y, gx, gy)
			}
		}
	}
}

func TestParseMoveWithPlacement(t *testing.T) {
	m, err := ParseMove("a1,a2c3b")
	if err != nil {
		t.Fatalf("ParseMove returned error: %v", err)
	}
	wantSx, wantSy, _ := ParseCoord("a1")
	wantDx, wantDy, _ := ParseCoord("a2")
	wantTx, wantTy, _ := ParseCoord("c3")
	if m.Sx != wantSx || m.Sy != wantSy || m.Dx != wantDx || m.Dy != wantDy {
		t.Fatalf("unexpected motion in parsed move: %+v", m)
	}
	if !m.PlaceTile || m.Tx != wantTx || m.Ty != wantTy || m.Tile != BlackTile {
		t.Fatalf("unexpected placement in parsed move: %+v", m)
	}

	if got := FormatMove(m); got != "a1,a2c3b" {
		t.Fatalf("FormatMove round trip = %q, want %q", got, "a1,a2c3b")
	}
}

func TestParseMoveWithoutPlacement(t *testing.T) {
	m, err := ParseMove("a1,b2")
	if err != nil {
		t.Fatalf("ParseMove returned error: %v", err)
	}
	if m.PlaceTile {
		t.Fatal("expected no placement")
	}
	if got := FormatMove(m); got != "a1,b2" {
		t.Fatalf("FormatMove = %q, want %q", got, "a1,b2")
	}
}

func TestParseMoveRejectsMalformedLiteral(t *testing.T) {
	if _, err := ParseMove("a1"); err == nil {
		t.Fatal("expected an error for a literal missing the destination")
	}
	if _, err := ParseMove("z9,a1"); err == nil {
		t.Fatal("expected an error for an out-of-range coordinate")
	}
}
