package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/heistgames/tournament-hub/services"
)

type LeaderboardHandler struct {
	leaderboardService services.LeaderboardService
}

func NewLeaderboardHandler(ls services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: ls,
	}
}

// List godoc
// @Summary Все записи лидерборда
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{} "leaderboard: [...]"
// @Failure 401 {object} map[string]string "Нужна роль ADMIN"
// @Security BearerAuth
// @Router /admin/leaderboard [get]
func (h *LeaderboardHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboardService.ListEntries(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Добавить запись лидерборда
// @Tags admin
// @Accept json
// @Produce json
// @Param input body services.LeaderboardInput true "Команда, турнир и очки"
// @Success 201 {object} map[string]interface{} "leaderboard: {...}"
// @Failure 400 {object} map[string]interface{} "Ошибка валидации"
// @Failure 401 {object} map[string]string "Нужна роль ADMIN"
// @Security BearerAuth
// @Router /admin/leaderboard [post]
func (h *LeaderboardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.LeaderboardInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	entry, err := h.leaderboardService.CreateEntry(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"leaderboard": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateLeaderboardInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	entry, err := h.leaderboardService.UpdateEntry(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"leaderboard": entry}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LeaderboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		badRequestResponse(w, r, errors.New("id query parameter is required"))
		return
	}

	if err := h.leaderboardService.DeleteEntry(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Leaderboard entry deleted successfully"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Export отдаёт таблицы всех турниров файлом xlsx или csv.
func (h *LeaderboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := services.ParseExportFormat(strings.ToLower(r.URL.Query().Get("format")))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	standings, err := h.leaderboardService.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	// Пишем в буфер, чтобы при ошибке ещё можно было ответить 500.
	var buf bytes.Buffer
	if err := services.WriteStandings(&buf, format, standings); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Standings godoc
// @Summary Публичные таблицы по турнирам
// @Tags leaderboard
// @Produce json
// @Success 200 {object} map[string]interface{} "standings: [...]"
// @Router /leaderboard [get]
func (h *LeaderboardHandler) Standings(w http.ResponseWriter, r *http.Request) {
	standings, err := h.leaderboardService.Standings(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
