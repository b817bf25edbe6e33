package handlers

import (
	"net/http"
	"strings"

	"github.com/heistgames/tournament-hub/services"
)

type ProfileHandler struct {
	profileService services.ProfileService
}

func NewProfileHandler(ps services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profileService: ps,
	}
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(r.Context(), session.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Update godoc
// @Summary Редактировать свой профиль
// @Tags profile
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "Имя"
// @Param lastName formData string true "Фамилия"
// @Param discordUsername formData string false "Discord"
// @Param profilePicture formData file false "Аватар"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Ошибка валидации"
// @Failure 401 {object} map[string]string "Неавторизован"
// @Security BearerAuth
// @Router /auth/profile/edit [put]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := parseMultipart(w, r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	picture, err := formFile(r, "profilePicture")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closeUpload(picture)

	input := services.UpdateProfileInput{
		FirstName:       strings.TrimSpace(r.FormValue("firstName")),
		LastName:        strings.TrimSpace(r.FormValue("lastName")),
		DiscordUsername: strings.TrimSpace(r.FormValue("discordUsername")),
		ProfilePicture:  picture,
	}
	if details := validateInput(input); details != nil {
		failedValidationResponse(w, r, details)
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), session.ID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	resp := jsonResponse{"message": "Profile updated successfully", "userId": user.ID}
	if err := writeJSON(w, http.StatusOK, resp, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MyTournaments возвращает турниры, в командах которых состоит текущий пользователь.
func (h *ProfileHandler) MyTournaments(w http.ResponseWriter, r *http.Request) {
	session, ok := requireSession(w, r)
	if !ok {
		return
	}

	tournaments, err := h.profileService.ListMyTournaments(r.Context(), session.ID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
