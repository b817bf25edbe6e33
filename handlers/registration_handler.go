package handlers

import (
	"net/http"

	"github.com/heistgames/tournament-hub/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(rs services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: rs,
	}
}

// CreateTeam godoc
// @Summary Создать команду и зарегистрировать её на турнир
// @Tags registration
// @Accept json
// @Produce json
// @Param input body services.CreateTeamInput true "Турнир и название команды"
// @Success 200 {object} map[string]interface{} "success: true"
// @Failure 400 {object} map[string]string "Ошибка валидации / регистрация закрыта / уже в команде"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Failure 409 {object} map[string]string "Турнир заполнен"
// @Security BearerAuth
// @Router /tournament/create [post]
func (h *RegistrationHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input services.CreateTeamInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	team, err := h.registrationService.CreateTeam(r.Context(), session.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// JoinTeam godoc
// @Summary Вступить в команду турнира
// @Tags registration
// @Accept json
// @Produce json
// @Param input body services.JoinTeamInput true "Турнир и (необязательно) команда"
// @Success 200 {object} map[string]interface{} "success: true"
// @Failure 400 {object} map[string]string "Регистрация закрыта / уже в команде"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Failure 404 {object} map[string]string "Турнир или команда не найдены"
// @Security BearerAuth
// @Router /tournament/join [post]
func (h *RegistrationHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input services.JoinTeamInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	team, err := h.registrationService.JoinTeam(r.Context(), session.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"success": true, "team": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
