package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/heistgames/tournament-hub/services"
)

const defaultTournamentPageSize = 20

type TournamentHandler struct {
	tournamentService services.TournamentService
}

func NewTournamentHandler(ts services.TournamentService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService: ts,
	}
}

// Create godoc
// @Summary Создать турнир
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Название"
// @Param description formData string true "Описание"
// @Param startDate formData string true "Дата начала (YYYY-MM-DD)"
// @Param startTime formData string true "Время начала (HH:MM)"
// @Param endDate formData string true "Дата окончания"
// @Param endTime formData string true "Время окончания"
// @Param prizePool formData string true "Призовой фонд"
// @Param maxPlayers formData int false "Максимум команд"
// @Param streamingUrl formData string false "Ссылка на трансляцию"
// @Param image formData file false "Обложка"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Ошибка валидации"
// @Failure 401 {object} map[string]string "Нужна роль ADMIN"
// @Security BearerAuth
// @Router /admin/create-tournament [post]
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	image, err := formFile(r, "image")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closeUpload(image)

	input := services.CreateTournamentInput{
		Name:         strings.TrimSpace(r.FormValue("name")),
		Description:  strings.TrimSpace(r.FormValue("description")),
		StartDate:    r.FormValue("startDate"),
		StartTime:    r.FormValue("startTime"),
		EndDate:      r.FormValue("endDate"),
		EndTime:      r.FormValue("endTime"),
		PrizePool:    r.FormValue("prizePool"),
		MaxPlayers:   strings.TrimSpace(r.FormValue("maxPlayers")),
		StreamingURL: strings.TrimSpace(r.FormValue("streamingUrl")),
		Image:        image,
	}
	if details := validateInput(input); details != nil {
		failedValidationResponse(w, r, details)
		return
	}

	tournament, err := h.tournamentService.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"success": true, "message": "Tournament created successfully", "data": tournament}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete принимает id турнира либо голой JSON-строкой, либо объектом {"id": "..."}.
func (h *TournamentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if err := readJSON(w, r, &raw); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	id, err := tournamentIDFromBody(raw)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.tournamentService.DeleteTournament(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Tournament deleted successfully"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func tournamentIDFromBody(raw json.RawMessage) (string, error) {
	var id string
	if err := json.Unmarshal(raw, &id); err != nil {
		var body struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			return "", errors.New("body must be a tournament id or an object with an id field")
		}
		id = body.ID
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.New("tournament id is required")
	}
	return id, nil
}

type registrationToggleInput struct {
	Open *bool `json:"open" validate:"required"`
}

// SetRegistration открывает или закрывает регистрацию команд.
func (h *TournamentHandler) SetRegistration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tournamentID")

	var input registrationToggleInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	tournament, err := h.tournamentService.SetRegistrationOpen(r.Context(), id, *input.Open)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.tournamentService.ListAllTournaments(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTeams отдаёт команды турнира вместе с профилями игроков.
func (h *TournamentHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.tournamentService.ListTeamsWithPlayers(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List godoc
// @Summary Список турниров
// @Tags tournaments
// @Produce json
// @Param upcoming query bool false "Только незавершённые, ближайшие первыми"
// @Param limit query int false "Лимит" default(20)
// @Param offset query int false "Смещение" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string "Неверные параметры"
// @Router /tournaments [get]
func (h *TournamentHandler) List(w http.ResponseWriter, r *http.Request) {
	params := services.ListTournamentsParams{Limit: defaultTournamentPageSize}
	query := r.URL.Query()

	if upcomingStr := query.Get("upcoming"); upcomingStr != "" {
		upcoming, err := strconv.ParseBool(upcomingStr)
		if err != nil {
			badRequestResponse(w, r, errors.New("invalid upcoming query parameter"))
			return
		}
		params.Upcoming = upcoming
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			params.Limit = limit
		} else {
			badRequestResponse(w, r, errors.New("invalid limit query parameter"))
			return
		}
	}
	if offsetStr := query.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			params.Offset = offset
		} else {
			badRequestResponse(w, r, errors.New("invalid offset query parameter"))
			return
		}
	}

	tournaments, err := h.tournamentService.ListTournaments(r.Context(), params)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	tournament, err := h.tournamentService.GetTournament(r.Context(), chi.URLParam(r, "tournamentID"))
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Home отдаёт ближайший турнир вместе с его результатами и спонсорами.
func (h *TournamentHandler) Home(w http.ResponseWriter, r *http.Request) {
	home, err := h.tournamentService.HomePage(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, home, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
