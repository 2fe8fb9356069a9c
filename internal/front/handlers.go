// Package front is the thin HTTP and WebSocket facade over the game core.
// It translates requests from the device screens into dispatches and engine
// calls; every piece of game logic lives below it.
package front

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/BibaPutt/vibeathon-arena/internal/admin"
	"github.com/BibaPutt/vibeathon-arena/internal/arena"
	"github.com/BibaPutt/vibeathon-arena/internal/catalog"
	"github.com/BibaPutt/vibeathon-arena/internal/game"
	"github.com/BibaPutt/vibeathon-arena/internal/models"
	syncpkg "github.com/BibaPutt/vibeathon-arena/internal/sync"
)

// Handler wires the game services behind the HTTP surface.
type Handler struct {
	loop     *syncpkg.Loop
	auth     *Auth
	engine   *arena.Engine
	controls *admin.Controls
	cm       *ConnectionManager
}

// NewHandler creates the HTTP facade.
func NewHandler(loop *syncpkg.Loop, auth *Auth, engine *arena.Engine, controls *admin.Controls, cm *ConnectionManager) *Handler {
	return &Handler{loop: loop, auth: auth, engine: engine, controls: controls, cm: cm}
}

// Routes registers every endpoint on a fresh mux.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", h.handleLogin)
	mux.HandleFunc("POST /api/logout", h.handleLogout)
	mux.HandleFunc("GET /api/state", h.handleState)
	mux.HandleFunc("POST /api/select/difficulty", h.handleSelectDifficulty)
	mux.HandleFunc("POST /api/select/language", h.handleSelectLanguage)

	mux.HandleFunc("GET /api/arena/{id}", h.handleArenaView)
	mux.HandleFunc("POST /api/arena/{id}/ack", h.handleArenaAck)
	mux.HandleFunc("POST /api/arena/{id}/move", h.handleArenaMove)
	mux.HandleFunc("POST /api/arena/{id}/execute", h.handleArenaExecute)

	mux.HandleFunc("GET /api/admin", h.handleAdminSummary)
	mux.HandleFunc("POST /api/admin/start-round", h.adminAction(func(r *http.Request) { h.controls.StartRound(r.Context()) }))
	mux.HandleFunc("POST /api/admin/end-round", h.adminAction(func(r *http.Request) { h.controls.EndRound(r.Context()) }))
	mux.HandleFunc("POST /api/admin/reset-all", h.adminAction(func(r *http.Request) { h.controls.ResetAll(r.Context()) }))
	mux.HandleFunc("POST /api/admin/reset-everything", h.adminAction(func(r *http.Request) { h.controls.ResetEverything(r.Context()) }))
	mux.HandleFunc("POST /api/admin/reset-player", h.handleAdminResetPlayer)
	mux.HandleFunc("POST /api/admin/add-player", h.handleAdminAddPlayer)
	mux.HandleFunc("POST /api/admin/extend-time", h.handleAdminExtendTime)
	mux.HandleFunc("POST /api/admin/qualify-count", h.handleAdminQualifyCount)

	mux.HandleFunc("GET /ws", h.handleWebSocket)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	return mux
}

type loginRequest struct {
	Code string `json:"code"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.auth.Login(r.Context(), req.Code)
	if err != nil {
		writeError(w, loginStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func loginStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidCode):
		return http.StatusBadRequest
	case errors.Is(err, ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyActive), errors.Is(err, ErrEliminated), errors.Is(err, ErrCompleted):
		return http.StatusConflict
	case errors.Is(err, ErrServerUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	state := h.loop.State()
	if state.CurrentPlayerID != "" {
		h.engine.CloseSession(state.CurrentPlayerID)
	}
	h.auth.Logout(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// stateResponse is the store snapshot plus the derived screen for the
// logged-in player.
type stateResponse struct {
	models.GameStore
	Phase game.Phase `json:"phase,omitempty"`
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	state := h.loop.State()
	resp := stateResponse{GameStore: state}
	if p := state.FindPlayer(state.CurrentPlayerID); p != nil {
		resp.Phase = game.PhaseFor(*p)
	}
	writeJSON(w, http.StatusOK, resp)
}

type selectDifficultyRequest struct {
	Difficulty models.Difficulty `json:"difficulty"`
}

func (h *Handler) handleSelectDifficulty(w http.ResponseWriter, r *http.Request) {
	state := h.loop.State()
	if state.CurrentPlayerID == "" {
		writeError(w, http.StatusUnauthorized, "player login required")
		return
	}

	var req selectDifficultyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch req.Difficulty {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyHard:
	default:
		writeError(w, http.StatusBadRequest, "unknown difficulty")
		return
	}

	next := h.loop.Dispatch(r.Context(), game.Action{
		Type:       game.ActionSelectDifficulty,
		PlayerID:   state.CurrentPlayerID,
		Difficulty: req.Difficulty,
	})
	writeJSON(w, http.StatusOK, next)
}

type selectLanguageRequest struct {
	Language string `json:"language"`
}

func (h *Handler) handleSelectLanguage(w http.ResponseWriter, r *http.Request) {
	state := h.loop.State()
	if state.CurrentPlayerID == "" {
		writeError(w, http.StatusUnauthorized, "player login required")
		return
	}

	var req selectLanguageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Language == "" {
		writeError(w, http.StatusBadRequest, "language is required")
		return
	}

	next := h.loop.Dispatch(r.Context(), game.Action{
		Type:     game.ActionSelectLanguage,
		PlayerID: state.CurrentPlayerID,
		Language: req.Language,
	})
	writeJSON(w, http.StatusOK, next)
}

// currentSession checks the path id against the device identity and returns
// the active session, starting one if needed. A nil session means the
// response was already written.
func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request, start bool) *arena.Session {
	id := r.PathValue("id")
	state := h.loop.State()
	if state.CurrentPlayerID == "" || state.CurrentPlayerID != id {
		writeError(w, http.StatusForbidden, "not logged in as this player")
		return nil
	}

	if start {
		sess, err := h.engine.StartSession(r.Context(), id)
		if err != nil {
			writeError(w, arenaStatus(err), err.Error())
			return nil
		}
		return sess
	}

	sess, ok := h.engine.Session(id)
	if !ok {
		writeError(w, http.StatusConflict, arena.ErrNoSession.Error())
		return nil
	}
	return sess
}

func arenaStatus(err error) int {
	switch {
	case errors.Is(err, arena.ErrUnknownPlayer):
		return http.StatusNotFound
	case errors.Is(err, arena.ErrNotPlaying), errors.Is(err, arena.ErrNoSession),
		errors.Is(err, arena.ErrLocked), errors.Is(err, arena.ErrCooldown),
		errors.Is(err, arena.ErrNotAcknowledged):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrNoMatch), errors.Is(err, catalog.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleArenaView(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(w, r, true)
	if sess == nil {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot())
}

func (h *Handler) handleArenaAck(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(w, r, true)
	if sess == nil {
		return
	}
	sess.Acknowledge()
	view := sess.Snapshot()
	h.broadcastArena(view)
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleArenaMove(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(w, r, false)
	if sess == nil {
		return
	}

	var req arena.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := sess.Move(r.Context(), req); err != nil {
		writeError(w, arenaStatus(err), err.Error())
		return
	}
	view := sess.Snapshot()
	h.broadcastArena(view)
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleArenaExecute(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(w, r, false)
	if sess == nil {
		return
	}

	result, err := sess.Execute(r.Context())
	if err != nil {
		writeError(w, arenaStatus(err), err.Error())
		return
	}
	h.broadcastArena(sess.Snapshot())
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) broadcastArena(view arena.View) {
	event, err := NewArenaEvent(view)
	if err != nil {
		return
	}
	h.cm.Broadcast(event)
}

// requireAdmin gates the admin surface on the device identity. Returns
// false with the response written when the device is not the admin.
func (h *Handler) requireAdmin(w http.ResponseWriter) bool {
	if !h.loop.State().IsAdmin {
		writeError(w, http.StatusForbidden, "admin login required")
		return false
	}
	return true
}

// adminAction wraps a no-payload admin control into a handler.
func (h *Handler) adminAction(fn func(r *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.requireAdmin(w) {
			return
		}
		fn(r)
		writeJSON(w, http.StatusOK, h.loop.State())
	}
}

func (h *Handler) handleAdminSummary(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w) {
		return
	}
	writeJSON(w, http.StatusOK, admin.Dashboard(h.loop.State()))
}

type playerIDRequest struct {
	PlayerID string `json:"playerId"`
}

func (h *Handler) handleAdminResetPlayer(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w) {
		return
	}
	var req playerIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "playerId is required")
		return
	}
	h.controls.ResetPlayer(r.Context(), req.PlayerID)
	h.engine.CloseSession(req.PlayerID)
	writeJSON(w, http.StatusOK, h.loop.State())
}

func (h *Handler) handleAdminAddPlayer(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w) {
		return
	}
	var req playerIDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PlayerID == "" {
		writeError(w, http.StatusBadRequest, "playerId is required")
		return
	}
	h.controls.AddPlayer(r.Context(), req.PlayerID)
	writeJSON(w, http.StatusOK, h.loop.State())
}

type extendTimeRequest struct {
	Seconds int `json:"seconds"`
}

func (h *Handler) handleAdminExtendTime(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w) {
		return
	}
	var req extendTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Seconds == 0 {
		req.Seconds = admin.DefaultExtension
	}
	h.controls.ExtendTime(r.Context(), req.Seconds)
	writeJSON(w, http.StatusOK, h.loop.State())
}

type qualifyCountRequest struct {
	Count int `json:"count"`
}

func (h *Handler) handleAdminQualifyCount(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w) {
		return
	}
	var req qualifyCountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.controls.SetQualifyCount(r.Context(), req.Count); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.loop.State())
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// The upgrader writes its own HTTP error on failure.
	if err := h.cm.UpgradeConnection(w, r); err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
	}
}
