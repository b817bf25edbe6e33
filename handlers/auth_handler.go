package handlers

import (
	"net/http"

	"github.com/heistgames/tournament-hub/services"
)

// AuthHandler обслуживает только сброс пароля: вход и регистрация живут у внешнего провайдера.
type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// ForgotPassword godoc
// @Summary Запросить письмо для сброса пароля
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.ForgotPasswordInput true "Email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Неверный email или пользователь не найден"
// @Failure 429 {object} map[string]string "Слишком много запросов"
// @Failure 500 {object} map[string]string "Не удалось отправить письмо"
// @Router /forget-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input services.ForgotPasswordInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	if err := h.authService.RequestPasswordReset(r.Context(), input.Email); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Password reset link sent to your email"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResetPassword godoc
// @Summary Установить новый пароль по токену из письма
// @Tags auth
// @Accept json
// @Produce json
// @Param input body services.ResetPasswordInput true "Токен и новый пароль"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Не хватает полей или пароль короче 8 символов"
// @Failure 401 {object} map[string]string "Токен недействителен или истёк"
// @Router /reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input services.ResetPasswordInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	if err := h.authService.ResetPassword(r.Context(), input.Token, input.NewPassword); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Password updated successfully"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
