package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/hailam/sage/internal/board"
	"github.com/hailam/sage/internal/storage"
)

type memRecorder struct {
	mu      sync.Mutex
	records []*storage.GameRecord
}

func (r *memRecorder) RecordGame(rec *storage.GameRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func newTestServer(t *testing.T) (*Server, *memRecorder) {
	t.Helper()
	rec := &memRecorder{}
	return New(rec, log.New(io.Discard, "", 0)), rec
}

// do sends a request and decodes the JSON response into out when non-nil.
func do(t *testing.T, s *Server, method, path string, body any, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func indexOf(t *testing.T, view GameView, move string) int {
	t.Helper()
	for _, mv := range view.LegalMoves {
		if mv.Move == move {
			return mv.Index
		}
	}
	t.Fatalf("move %s not offered: %+v", move, view.LegalMoves)
	return -1
}

func TestCreateAndGetGame(t *testing.T) {
	s, _ := newTestServer(t)

	var created GameView
	if code := do(t, s, http.MethodPost, "/api/games", nil, &created); code != http.StatusCreated {
		t.Fatalf("create status = %d", code)
	}
	if created.ID == "" || created.State != "ongoing" || created.Turn != "white" {
		t.Errorf("created = %+v", created)
	}
	if len(created.LegalMoves) != 20 {
		t.Errorf("legal moves = %d, want 20", len(created.LegalMoves))
	}
	if created.Board[0] != "rnbqkbnr" || created.Board[7] != "RNBQKBNR" || created.Board[3] != "........" {
		t.Errorf("board = %v", created.Board)
	}
	if created.Castling != "KQkq" || created.EnPassantCol != board.NoEnPassant {
		t.Errorf("castling = %s, en passant = %d", created.Castling, created.EnPassantCol)
	}

	var got GameView
	if code := do(t, s, http.MethodGet, "/api/games/"+created.ID, nil, &got); code != http.StatusOK {
		t.Fatalf("get status = %d", code)
	}
	if got.ID != created.ID || got.Plies != 0 {
		t.Errorf("got = %+v", got)
	}
	if s.Manager().Len() != 1 {
		t.Errorf("manager holds %d games", s.Manager().Len())
	}
}

func TestUnknownGame(t *testing.T) {
	s, _ := newTestServer(t)

	var body map[string]string
	if code := do(t, s, http.MethodGet, "/api/games/nope", nil, &body); code != http.StatusNotFound {
		t.Errorf("get status = %d, want 404", code)
	}
	if body["error"] == "" {
		t.Errorf("error body = %v", body)
	}
	if code := do(t, s, http.MethodPost, "/api/games/nope/moves", map[string]int{"index": 0}, nil); code != http.StatusNotFound {
		t.Errorf("move status = %d, want 404", code)
	}
	if code := do(t, s, http.MethodPost, "/api/games/nope/autoplay", nil, nil); code != http.StatusNotFound {
		t.Errorf("autoplay status = %d, want 404", code)
	}
}

func TestPlayMove(t *testing.T) {
	s, _ := newTestServer(t)

	var view GameView
	do(t, s, http.MethodPost, "/api/games", nil, &view)
	path := "/api/games/" + view.ID + "/moves"

	tests := []struct {
		name string
		body any
		code int
	}{
		{"missing index", map[string]string{}, http.StatusBadRequest},
		{"negative index", map[string]int{"index": -1}, http.StatusBadRequest},
		{"index past the list", map[string]int{"index": 20}, http.StatusBadRequest},
	}
	for _, tc := range tests {
		if code := do(t, s, http.MethodPost, path, tc.body, nil); code != tc.code {
			t.Errorf("%s: status = %d, want %d", tc.name, code, tc.code)
		}
	}

	idx := indexOf(t, view, "e2-e4")
	var after GameView
	if code := do(t, s, http.MethodPost, path, map[string]int{"index": idx}, &after); code != http.StatusOK {
		t.Fatalf("move status = %d", code)
	}
	if after.Plies != 1 || after.Turn != "black" || after.EnPassantCol != 4 {
		t.Errorf("after e2-e4 = %+v", after)
	}
	if len(after.History) != 1 || after.History[0] != "e2-e4" {
		t.Errorf("history = %v", after.History)
	}
}

func TestFinishedGameIsRecorded(t *testing.T) {
	s, rec := newTestServer(t)

	var view GameView
	do(t, s, http.MethodPost, "/api/games", nil, &view)
	path := "/api/games/" + view.ID

	for _, mv := range []string{"f2-f3", "e7-e5", "g2-g4", "d8-h4"} {
		idx := indexOf(t, view, mv)
		if code := do(t, s, http.MethodPost, path+"/moves", map[string]int{"index": idx}, &view); code != http.StatusOK {
			t.Fatalf("%s status = %d", mv, code)
		}
	}

	if view.State != "black won" || view.Reason != "checkmate" || !view.InCheck {
		t.Errorf("final view = %+v", view)
	}
	if len(view.LegalMoves) != 0 {
		t.Errorf("legal moves offered after mate: %v", view.LegalMoves)
	}

	if code := do(t, s, http.MethodPost, path+"/moves", map[string]int{"index": 0}, nil); code != http.StatusConflict {
		t.Errorf("move after mate status = %d, want 409", code)
	}
	if code := do(t, s, http.MethodPost, path+"/autoplay", nil, nil); code != http.StatusConflict {
		t.Errorf("autoplay after mate status = %d, want 409", code)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.records) != 1 {
		t.Fatalf("recorded %d games, want 1", len(rec.records))
	}
	r := rec.records[0]
	if r.ID != view.ID || r.Outcome != storage.OutcomeBlackWon || r.Plies != 4 || r.Source != "server" {
		t.Errorf("record = %+v", r)
	}
}

func TestAutoplay(t *testing.T) {
	s, _ := newTestServer(t)

	var view GameView
	do(t, s, http.MethodPost, "/api/games", map[string]int64{"seed": 5}, &view)

	for i := 1; i <= 6; i++ {
		if code := do(t, s, http.MethodPost, "/api/games/"+view.ID+"/autoplay", nil, &view); code != http.StatusOK {
			t.Fatalf("autoplay %d status = %d", i, code)
		}
		if view.Plies != i {
			t.Fatalf("plies = %d, want %d", view.Plies, i)
		}
	}
}

func TestCreateFromRejectsInvalidPosition(t *testing.T) {
	m := NewManager(nil, log.New(io.Discard, "", 0))
	pos := board.NewEmptyPosition()
	pos.Put(board.E1, board.WhiteKing)
	if _, err := m.CreateFrom(pos, 1); err == nil {
		t.Error("CreateFrom accepted a position without a black king")
	}
	if m.Len() != 0 {
		t.Errorf("invalid game registered")
	}
}

func TestStalemateViaManager(t *testing.T) {
	rec := &memRecorder{}
	m := NewManager(rec, log.New(io.Discard, "", 0))

	// Qc5-b6 leaves the cornered king without a move.
	pos := board.NewEmptyPosition()
	pos.Put(board.A8, board.BlackKing)
	pos.Put(board.C5, board.WhiteQueen)
	pos.Put(board.H1, board.WhiteKing)

	view, err := m.CreateFrom(pos, 1)
	if err != nil {
		t.Fatalf("CreateFrom: %v", err)
	}
	view, err = m.Play(view.ID, indexOf(t, view, "c5-b6"))
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if view.State != "draw" || view.Reason != "stalemate" {
		t.Errorf("view = %s (%s), want draw by stalemate", view.State, view.Reason)
	}
	if len(rec.records) != 1 || rec.records[0].Outcome != storage.OutcomeDraw {
		t.Errorf("records = %+v", rec.records)
	}
}
