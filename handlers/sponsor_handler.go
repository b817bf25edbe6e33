package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/heistgames/tournament-hub/services"
)

type SponsorHandler struct {
	sponsorService services.SponsorService
}

func NewSponsorHandler(ss services.SponsorService) *SponsorHandler {
	return &SponsorHandler{
		sponsorService: ss,
	}
}

func (h *SponsorHandler) List(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.sponsorService.ListSponsors(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sponsors": sponsors}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Create godoc
// @Summary Добавить спонсора
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param companyName formData string true "Компания"
// @Param description formData string true "Описание"
// @Param website formData string false "Сайт"
// @Param logo formData file true "Логотип"
// @Success 200 {object} map[string]interface{} "sponsor: {...}"
// @Failure 400 {object} map[string]interface{} "Ошибка валидации"
// @Failure 401 {object} map[string]string "Нужна роль ADMIN"
// @Failure 500 {object} map[string]string "Не удалось загрузить логотип"
// @Security BearerAuth
// @Router /admin/sponsors [post]
func (h *SponsorHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	logo, err := formFile(r, "logo")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	defer closeUpload(logo)

	input := services.CreateSponsorInput{
		CompanyName: strings.TrimSpace(r.FormValue("companyName")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Website:     strings.TrimSpace(r.FormValue("website")),
		Logo:        logo,
	}
	if details := validateInput(input); details != nil {
		failedValidationResponse(w, r, details)
		return
	}

	sponsor, err := h.sponsorService.CreateSponsor(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sponsor": sponsor}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Delete удаляет спонсора по ?id= и возвращает удалённую запись.
func (h *SponsorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		badRequestResponse(w, r, errors.New("id query parameter is required"))
		return
	}

	sponsor, err := h.sponsorService.DeleteSponsor(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"sponsor": sponsor}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitInquiry godoc
// @Summary Заявка «стать спонсором»
// @Tags sponsors
// @Accept json
// @Produce json
// @Param input body services.SponsorInquiryInput true "Контакты и сообщение"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]interface{} "Ошибка валидации"
// @Router /sponsors/inquiry [post]
func (h *SponsorHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var input services.SponsorInquiryInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	if _, err := h.sponsorService.SubmitInquiry(r.Context(), input); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "Inquiry submitted successfully"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SponsorHandler) ListInquiries(w http.ResponseWriter, r *http.Request) {
	inquiries, err := h.sponsorService.ListInquiries(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"inquiries": inquiries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
