package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/multigame-backend/internal/apperror"
	"github.com/rocketscienceinc/multigame-backend/internal/entity"
	"github.com/rocketscienceinc/multigame-backend/internal/usecase"
)

type GameHandler struct {
	logger *slog.Logger
	games  usecase.GameUseCase
}

func NewGameHandler(logger *slog.Logger, games usecase.GameUseCase) *GameHandler {
	return &GameHandler{
		logger: logger.With("component", "gameHandler"),
		games:  games,
	}
}

type registerRequest struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Color entity.Color `json:"color"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

func (that *GameHandler) RegisterPlayer(w http.ResponseWriter, r *http.Request) {
	var request registerRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed body"})
		return
	}

	player := &entity.Player{ID: request.ID, Name: request.Name, Color: request.Color}

	seat, err := that.games.RegisterPlayer(r.Context(), chi.URLParam(r, "type"), player)
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, seat)
}

func (that *GameHandler) UnregisterPlayer(w http.ResponseWriter, r *http.Request) {
	if err := that.games.UnregisterPlayer(r.Context(), chi.URLParam(r, "gameID"), chi.URLParam(r, "seatID")); err != nil {
		that.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *GameHandler) AvailableColors(w http.ResponseWriter, r *http.Request) {
	colors, err := that.games.GetAvailableColors(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, colors)
}

func (that *GameHandler) LocateGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.LocateGame(r.Context(), chi.URLParam(r, "type"), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.games.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, game)
}

func (that *GameHandler) DoMove(w http.ResponseWriter, r *http.Request) {
	var move entity.Move
	if err := json.NewDecoder(r.Body).Decode(&move); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed body"})
		return
	}

	result, err := that.games.DoMove(r.Context(), chi.URLParam(r, "gameID"), &move)

	var invalid *apperror.InvalidMoveError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (that *GameHandler) SuggestMove(w http.ResponseWriter, r *http.Request) {
	var suggestion entity.Suggestion
	if err := json.NewDecoder(r.Body).Decode(&suggestion); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed body"})
		return
	}

	result, err := that.games.SuggestMove(r.Context(), chi.URLParam(r, "gameID"), &suggestion)

	var invalid *apperror.InvalidMoveError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (that *GameHandler) ListMoves(w http.ResponseWriter, r *http.Request) {
	moves, err := that.games.ListMoves(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		that.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, moves)
}

func (that *GameHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}

	response := errorResponse{Error: err.Error()}

	var registrationErr *apperror.RegistrationError
	if errors.As(err, &registrationErr) {
		response.Reason = registrationErr.Reason
	}

	writeJSON(w, status, response)
}

func statusOf(err error) int {
	var registrationErr *apperror.RegistrationError

	switch {
	case errors.Is(err, apperror.ErrUnknownGameType):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &registrationErr),
		errors.Is(err, apperror.ErrAmbiguousResult),
		errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
