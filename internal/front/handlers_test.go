package front

import (
	"bytes"
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/BibaPutt/vibeathon-arena/internal/admin"
	"github.com/BibaPutt/vibeathon-arena/internal/arena"
	"github.com/BibaPutt/vibeathon-arena/internal/catalog"
	"github.com/BibaPutt/vibeathon-arena/internal/game"
	"github.com/BibaPutt/vibeathon-arena/internal/models"
	"github.com/BibaPutt/vibeathon-arena/internal/session"
	syncpkg "github.com/BibaPutt/vibeathon-arena/internal/sync"
)

const handlerBank = `{
  "problems": [
    {
      "id": "py-easy-1",
      "language": "python",
      "difficulty": "Easy",
      "task": "Order the function",
      "allowed_moves": 5,
      "code_chunks": [
        {"id": "a", "content": "def f(x):"},
        {"id": "b", "content": "    return x"}
      ],
      "solution_order": ["a", "b"]
    }
  ]
}`

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()

	bank, err := catalog.Parse([]byte(handlerBank))
	if err != nil {
		t.Fatalf("parse bank: %v", err)
	}

	remote := models.DefaultStore(3).ToShared()
	gw := &fakeGateway{remote: &remote}
	clock := clockwork.NewFakeClock()
	sessions := session.NewMemoryStore()

	store := game.NewStore(models.DefaultStore(3))
	loop := syncpkg.NewLoop(store, gw, sessions, clock, time.Second)
	engine := arena.NewEngine(loop, bank, sessions, clock, rand.New(rand.NewSource(3)), arena.DefaultTuning())
	auth := NewAuth(loop, gw, "tumhari_maut")
	controls := admin.NewControls(loop, clock)
	cm := NewConnectionManager(DefaultConnectionConfig())

	return NewHandler(loop, auth, engine, controls, cm).Routes()
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestPlayerJourneyOverHTTP(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/login", map[string]string{"code": "VB-2"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", rec.Code, rec.Body)
	}
	var login LoginResult
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Role != "player" || login.PlayerID != "002" {
		t.Fatalf("login = %+v", login)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/select/difficulty", map[string]string{"difficulty": "Easy"})
	if rec.Code != http.StatusOK {
		t.Fatalf("select difficulty status = %d, body %s", rec.Code, rec.Body)
	}
	rec = doJSON(t, mux, http.MethodPost, "/api/select/language", map[string]string{"language": "python"})
	if rec.Code != http.StatusOK {
		t.Fatalf("select language status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/arena/002", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("arena view status = %d, body %s", rec.Code, rec.Body)
	}
	var view arena.View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Problem.ID != "py-easy-1" || len(view.Fragments) != 2 {
		t.Fatalf("view = %+v", view)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/arena/002/ack", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("ack status = %d", rec.Code)
	}

	fromIndex := 0
	if view.Fragments[0].ID != "a" {
		fromIndex = 1
	}
	rec = doJSON(t, mux, http.MethodPost, "/api/arena/002/move", arena.MoveRequest{
		From: arena.ListFragments, To: arena.ListSolution, FromIndex: fromIndex, ToIndex: 0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("move status = %d, body %s", rec.Code, rec.Body)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.DragsRemaining != 4 || len(view.Solution) != 1 {
		t.Fatalf("after move: drags=%d solution=%d", view.DragsRemaining, len(view.Solution))
	}

	// Second fragment to complete the solution, then execute.
	rec = doJSON(t, mux, http.MethodPost, "/api/arena/002/move", arena.MoveRequest{
		From: arena.ListFragments, To: arena.ListSolution, FromIndex: 0, ToIndex: 1,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second move status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/arena/002/execute", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("execute status = %d, body %s", rec.Code, rec.Body)
	}
	var result arena.ExecuteResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if !result.Correct || !result.Committed || result.Points != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestArenaRejectsWrongPlayer(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/login", map[string]string{"code": "001"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/arena/002", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 for another player's arena", rec.Code)
	}
}

func TestAdminEndpointsAreGated(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/admin", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403 without admin login", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/login", map[string]string{"code": "tumhari_maut"})
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login status = %d", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodGet, "/api/admin", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	var summary admin.Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("summary total = %d, want 3", summary.Total)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/admin/qualify-count", map[string]int{"count": 0})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("qualify-count 0 status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/admin/extend-time", map[string]int{"seconds": 120})
	if rec.Code != http.StatusOK {
		t.Fatalf("extend-time status = %d", rec.Code)
	}
	var state models.GameStore
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Config.TimerDurationSec != models.DefaultTimerDurationSec+120 {
		t.Fatalf("timer = %d", state.Config.TimerDurationSec)
	}
}

func TestLoginErrorStatuses(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/login", map[string]string{"code": "garbage"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid code status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, mux, http.MethodPost, "/api/login", map[string]string{"code": "999"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestUnknownRouteReturnsJSON404(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodGet, "/api/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("404 body is not JSON: %s", rec.Body)
	}
	if resp.Error == "" {
		t.Fatal("404 body missing error field")
	}
}

func TestSelectionRequiresLogin(t *testing.T) {
	mux := newTestMux(t)

	rec := doJSON(t, mux, http.MethodPost, "/api/select/difficulty", map[string]string{"difficulty": "Easy"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without login", rec.Code)
	}
}
