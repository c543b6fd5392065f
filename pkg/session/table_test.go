package session

import (
	"strings"
	"testing"
)

func TestAssignAutoGivesXThenOThenSpectator(t *testing.T) {
	tbl := NewTable()

	role, err := tbl.Assign("alice", RoleAuto, "", "")
	if err != nil || role != RoleX {
		t.Fatalf("first client: role=%v err=%v, want X", role, err)
	}
	role, err = tbl.Assign("bob", RoleAuto, "", "")
	if err != nil || role != RoleO {
		t.Fatalf("second client: role=%v err=%v, want O", role, err)
	}
	role, err = tbl.Assign("carol", RoleAuto, "", "")
	if err != nil || role != RoleSpectator {
		t.Fatalf("third client: role=%v err=%v, want spectator", role, err)
	}
}

func TestAssignSpecificRoleRejectsDuplicate(t *testing.T) {
	tbl := NewTable()
	if _, err := tbl.Assign("alice", RoleX, "", ""); err != nil {
		t.Fatalf("alice claiming X: %v", err)
	}
	if _, err := tbl.Assign("bob", RoleX, "", ""); err != ErrRoleTaken {
		t.Fatalf("bob claiming X: got %v, want ErrRoleTaken", err)
	}
	// Re-requesting one's own seat is idempotent.
	if _, err := tbl.Assign("alice", RoleX, "", ""); err != nil {
		t.Fatalf("alice re-claiming X: %v", err)
	}
}

func TestMoveRejectsWrongTurn(t *testing.T) {
	tbl := NewTable()
	mustAssign(t, tbl, "alice", RoleX)
	mustAssign(t, tbl, "bob", RoleO)

	if _, err := tbl.Move("bob", "a5,a4"); err != ErrNotYourTurn {
		t.Fatalf("O moving first: got %v, want ErrNotYourTurn", err)
	}
}

func TestMoveRejectsSpectator(t *testing.T) {
	tbl := NewTable()
	mustAssign(t, tbl, "alice", RoleX)
	mustAssign(t, tbl, "carol", RoleSpectator)

	if _, err := tbl.Move("carol", "a5,a4"); err != ErrSpectatorCannotMove {
		t.Fatalf("spectator moving: got %v, want ErrSpectatorCannotMove", err)
	}
}

func TestMoveAppliesAndAdvancesTurn(t *testing.T) {
	tbl := NewTable()
	mustAssign(t, tbl, "alice", RoleX)
	mustAssign(t, tbl, "bob", RoleO)

	// Black starts on rank 5 (y=0); a5 is x=0,y=0. Moving down to a4
	// (y=1) is a legal orthogonal step toward Black's goal rank.
	status, err := tbl.Move("alice", "a5,a4")
	if err != nil {
		t.Fatalf("X's first move: %v", err)
	}
	if status != StatusOngoing {
		t.Fatalf("status = %q, want ongoing", status)
	}

	block := tbl.StateBlock()
	if !strings.Contains(block, "TURN O") {
		t.Fatalf("expected TURN O after X moves, got:\n%s", block)
	}
	if !strings.Contains(block, "LAST a5,a4") {
		t.Fatalf("expected LAST a5,a4, got:\n%s", block)
	}
}

func TestMoveRejectsIllegalLiteral(t *testing.T) {
	tbl := NewTable()
	mustAssign(t, tbl, "alice", RoleX)

	if _, err := tbl.Move("alice", "a1,e5"); err == nil {
		t.Fatal("expected an error for an illegal move")
	}
}

func TestLeaveFreesSeatForReassignment(t *testing.T) {
	tbl := NewTable()
	mustAssign(t, tbl, "alice", RoleX)
	tbl.Leave("alice")

	role, err := tbl.Assign("bob", RoleX, "", "")
	if err != nil || role != RoleX {
		t.Fatalf("bob claiming freed X: role=%v err=%v", role, err)
	}
}

func TestStateBlockReportsInitialTileStocks(t *testing.T) {
	tbl := NewTable()
	block := tbl.StateBlock()
	if !strings.Contains(block, "TILES X 3 1") {
		t.Fatalf("expected initial X tile stock 3 1, got:\n%s", block)
	}
	if !strings.Contains(block, "TILES O 3 1") {
		t.Fatalf("expected initial O tile stock 3 1, got:\n%s", block)
	}
	if !strings.Contains(block, "STATUS ongoing") {
		t.Fatalf("expected ongoing status, got:\n%s", block)
	}
	if !strings.Contains(block, "LAST none") {
		t.Fatalf("expected LAST none before any move, got:\n%s", block)
	}
}

func mustAssign(t *testing.T, tbl *Table, client string, role Role) {
	t.Helper()
	if _, err := tbl.Assign(client, role, "", ""); err != nil {
		t.Fatalf("assigning %s to %v: %v", client, role, err)
	}
}
