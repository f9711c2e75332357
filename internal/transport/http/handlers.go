package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"manaclock/internal/app"
	"manaclock/internal/domain"
)

// Response is a standard API response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StartGameRequest is the body for POST /api/game/start.
type StartGameRequest struct {
	Players          []app.PlayerSetup `json:"players"`
	SinglePlayerMode bool              `json:"singlePlayerMode"`
	PlayerPosition   int               `json:"playerPosition"`
}

// AddLandRequest is the body for POST /api/players/{id}/lands.
type AddLandRequest struct {
	Type     string           `json:"type"`
	Produces domain.ManaColor `json:"produces,omitempty"`
}

// AdjustManaRequest is the body for POST /api/players/{id}/mana.
type AdjustManaRequest struct {
	Color domain.ManaColor `json:"color"`
	Delta int              `json:"delta"`
}

// DisplayedPlayerRequest is the body for POST /api/game/displayed-player.
type DisplayedPlayerRequest struct {
	Index int `json:"index"`
}

// SavedGameResponse is the response for GET /api/game/saved.
type SavedGameResponse struct {
	HasSavedGame bool `json:"hasSavedGame"`
}

// HealthResponse is the response for health check.
type HealthResponse struct {
	Status string `json:"status"`
}

// handleStartGame handles POST /api/game/start.
func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	var req StartGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	if err := s.service.StartGame(req.Players, req.SinglePlayerMode, req.PlayerPosition); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyRoster):
			s.sendError(w, http.StatusBadRequest, "EMPTY_ROSTER", "At least one player is required")
		case errors.Is(err, domain.ErrPositionOutOfRange):
			s.sendError(w, http.StatusBadRequest, "POSITION_OUT_OF_RANGE", "Player position out of range")
		default:
			s.sendError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return
	}

	s.sendSuccess(w, s.service.State())
}

// handleNextTurn handles POST /api/game/next-turn.
func (s *Server) handleNextTurn(w http.ResponseWriter, r *http.Request) {
	s.service.NextTurn()
	s.sendSuccess(w, s.service.State())
}

// handleAdvancePhantom handles POST /api/game/advance-phantom.
func (s *Server) handleAdvancePhantom(w http.ResponseWriter, r *http.Request) {
	s.service.AdvancePhantomTurn()
	s.sendSuccess(w, s.service.State())
}

// handleEndGame handles POST /api/game/end.
func (s *Server) handleEndGame(w http.ResponseWriter, r *http.Request) {
	s.service.EndGame()
	s.sendSuccess(w, s.service.State())
}

// handleResetGame handles POST /api/game/reset.
func (s *Server) handleResetGame(w http.ResponseWriter, r *http.Request) {
	s.service.ResetGame()
	s.sendSuccess(w, s.service.State())
}

// handleContinueGame handles POST /api/game/continue.
func (s *Server) handleContinueGame(w http.ResponseWriter, r *http.Request) {
	s.service.ContinueSavedGame()
	s.sendSuccess(w, s.service.State())
}

// handleSetDisplayedPlayer handles POST /api/game/displayed-player.
func (s *Server) handleSetDisplayedPlayer(w http.ResponseWriter, r *http.Request) {
	var req DisplayedPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	s.service.SetDisplayedPlayerIndex(req.Index)
	s.sendSuccess(w, s.service.State())
}

// handleGetState handles GET /api/game/state.
func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.service.State())
}

// handleSavedGame handles GET /api/game/saved.
func (s *Server) handleSavedGame(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &SavedGameResponse{HasSavedGame: s.service.HasSavedSession()})
}

// handleAddPlayer handles POST /api/players.
func (s *Server) handleAddPlayer(w http.ResponseWriter, r *http.Request) {
	s.service.AddPlayer()
	s.sendSuccess(w, s.service.State())
}

// handleUpdatePlayer handles PATCH /api/players/{id}.
func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	var patch domain.PlayerPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	s.service.UpdatePlayer(id, patch)
	s.sendSuccess(w, s.service.State())
}

// handleRemovePlayer handles DELETE /api/players/{id}.
func (s *Server) handleRemovePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	s.service.RemovePlayer(id)
	s.sendSuccess(w, s.service.State())
}

// handleAddLand handles POST /api/players/{id}/lands.
func (s *Server) handleAddLand(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	var req AddLandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	s.service.AddLand(id, req.Type, req.Produces)
	s.sendSuccess(w, s.service.State())
}

// handleRemoveLand handles DELETE /api/players/{id}/lands/{type}.
func (s *Server) handleRemoveLand(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	s.service.RemoveLandByType(id, r.PathValue("type"))
	s.sendSuccess(w, s.service.State())
}

// handleToggleLand handles POST /api/players/{id}/lands/{landId}/toggle.
func (s *Server) handleToggleLand(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	landID, err := strconv.ParseInt(r.PathValue("landId"), 10, 64)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_LAND_ID", "Land ID must be an integer")
		return
	}
	s.service.ToggleLand(id, landID)
	s.sendSuccess(w, s.service.State())
}

// handleAdjustMana handles POST /api/players/{id}/mana.
func (s *Server) handleAdjustMana(w http.ResponseWriter, r *http.Request) {
	id, ok := s.playerID(w, r)
	if !ok {
		return
	}
	var req AdjustManaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if !req.Color.IsValid() {
		s.sendError(w, http.StatusBadRequest, "INVALID_MANA_COLOR", "Unknown mana color")
		return
	}
	s.service.AdjustMana(id, req.Color, req.Delta)
	s.sendSuccess(w, s.service.State())
}

// handlePauseClock handles POST /api/clock/pause.
func (s *Server) handlePauseClock(w http.ResponseWriter, r *http.Request) {
	s.service.SetTimerRunning(false)
	s.sendSuccess(w, s.service.State())
}

// handleResumeClock handles POST /api/clock/resume.
func (s *Server) handleResumeClock(w http.ResponseWriter, r *http.Request) {
	s.service.SetTimerRunning(true)
	s.sendSuccess(w, s.service.State())
}

// handleGetSettings handles GET /api/settings.
func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, s.service.Settings())
}

// handleUpdateSettings handles PUT /api/settings.
func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if patch.ChessClockMode != nil && !patch.ChessClockMode.IsValid() {
		s.sendError(w, http.StatusBadRequest, "INVALID_CLOCK_MODE", "Unknown chess clock mode")
		return
	}
	s.service.UpdateSettings(patch)
	s.sendSuccess(w, s.service.Settings())
}

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, &HealthResponse{Status: "ok"})
}

// playerID parses the {id} path segment.
func (s *Server) playerID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "INVALID_PLAYER_ID", "Player ID must be an integer")
		return 0, false
	}
	return id, true
}

// sendSuccess sends a successful JSON response.
func (s *Server) sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response.
func (s *Server) sendError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(&Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
