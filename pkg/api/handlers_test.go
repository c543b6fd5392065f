package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestHandlers() (*Handlers, *Registry) {
	reg := NewRegistry()
	return NewHandlersWithPool(reg, "test-version", NewWorkerPool(DefaultPoolConfig())), reg
}

func doJSON(h http.HandlerFunc, method, path string, body interface{}, pathValues map[string]string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != nil {
		buf, _ := json.Marshal(body)
		r = httptest.NewRequest(method, path, bytes.NewReader(buf))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	for k, v := range pathValues {
		r.SetPathValue(k, v)
	}
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

func TestHealthHandlerCountsGames(t *testing.T) {
	h, reg := newTestHandlers()
	reg.Create(NewGameRequest{})
	reg.Create(NewGameRequest{})

	w := doJSON(h.Health, "GET", "/api/health", nil, nil)
	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("Status = %q, want ok", resp.Status)
	}
	if resp.Games != 2 {
		t.Errorf("Games = %d, want 2", resp.Games)
	}
}

func TestNewGameCreatesOngoingGame(t *testing.T) {
	h, _ := newTestHandlers()

	w := doJSON(h.NewGame, "POST", "/api/game/new", NewGameRequest{AIWhite: "greedy"}, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	var resp GameResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != StatusOngoing {
		t.Errorf("Status = %q, want %q", resp.Status, StatusOngoing)
	}
	if resp.ToMove != "X" {
		t.Errorf("ToMove = %q, want X", resp.ToMove)
	}
	if resp.AIWhite != "greedy" {
		t.Errorf("AIWhite = %q, want greedy", resp.AIWhite)
	}
}

func TestGetGameUnknownIDReturns404(t *testing.T) {
	h, _ := newTestHandlers()
	w := doJSON(h.GetGame, "GET", "/api/game/nope", nil, map[string]string{"id": "nope"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestLegalMovesListsMovesForBlackFirst(t *testing.T) {
	h, reg := newTestHandlers()
	g := reg.Create(NewGameRequest{})

	w := doJSON(h.LegalMoves, "GET", "/api/game/"+g.id+"/moves", nil, map[string]string{"id": g.id})
	var resp LegalMovesResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ToMove != "X" {
		t.Errorf("ToMove = %q, want X", resp.ToMove)
	}
	if len(resp.Moves) == 0 {
		t.Error("expected at least one legal move from the initial position")
	}
}

func TestMoveAppliesAndAdvancesTurn(t *testing.T) {
	h, reg := newTestHandlers()
	g := reg.Create(NewGameRequest{})

	w := doJSON(h.Move, "POST", "/api/game/"+g.id+"/move", MoveRequest{Move: "a5,a4"}, map[string]string{"id": g.id})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp GameResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.ToMove != "O" {
		t.Errorf("ToMove = %q, want O", resp.ToMove)
	}
	if resp.LastMove != "a5,a4" {
		t.Errorf("LastMove = %q, want a5,a4", resp.LastMove)
	}
}

func TestMoveRejectsIllegalLiteral(t *testing.T) {
	h, reg := newTestHandlers()
	g := reg.Create(NewGameRequest{})

	w := doJSON(h.Move, "POST", "/api/game/"+g.id+"/move", MoveRequest{Move: "a1,e5"}, map[string]string{"id": g.id})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnprocessableEntity)
	}
}

func TestAIMoveRandomAdvancesTurn(t *testing.T) {
	h, reg := newTestHandlers()
	g := reg.Create(NewGameRequest{})

	w := doJSON(h.AIMove, "POST", "/api/game/"+g.id+"/ai_move", AIMoveRequest{Kind: "random"}, map[string]string{"id": g.id})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp GameResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.ToMove != "O" {
		t.Errorf("ToMove = %q, want O", resp.ToMove)
	}
	if resp.LastMove == "" {
		t.Error("expected a recorded last move")
	}
}

func TestResetRestoresInitialPosition(t *testing.T) {
	h, reg := newTestHandlers()
	g := reg.Create(NewGameRequest{})
	doJSON(h.Move, "POST", "/api/game/"+g.id+"/move", MoveRequest{Move: "a5,a4"}, map[string]string{"id": g.id})

	w := doJSON(h.Reset, "POST", "/api/game/"+g.id+"/reset", nil, map[string]string{"id": g.id})
	var resp GameResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.ToMove != "X" {
		t.Errorf("ToMove after reset = %q, want X", resp.ToMove)
	}
	if resp.LastMove != "" {
		t.Errorf("LastMove after reset = %q, want empty", resp.LastMove)
	}
}

func TestBoardTextContainsGlyphs(t *testing.T) {
	h, reg := newTestHandlers()
	g := reg.Create(NewGameRequest{})

	w := doJSON(h.BoardText, "GET", "/api/game/"+g.id+"/board_text", nil, map[string]string{"id": g.id})
	var resp BoardTextResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if !strings.Contains(resp.Text, "\n") {
		t.Error("expected a multi-line board rendering")
	}
}

func TestBoardArrayHasEncodedLength(t *testing.T) {
	h, reg := newTestHandlers()
	g := reg.Create(NewGameRequest{})

	w := doJSON(h.BoardArray, "GET", "/api/game/"+g.id+"/board_array", nil, map[string]string{"id": g.id})
	var resp BoardArrayResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if len(resp.Array) == 0 {
		t.Error("expected a non-empty encoded array")
	}
}
