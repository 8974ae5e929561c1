package controllers

import (
	"checkinboard/internal/models"
	"checkinboard/internal/providers"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"
)

type ThemeServiceInterface interface {
	Theme() models.Theme
	SetTheme(theme models.Theme) error
	ToggleTheme() (models.Theme, error)
}

type PreferencesController struct {
	logger providers.Logger
	themes ThemeServiceInterface
}

type themePayload struct {
	Theme string `json:"theme" validate:"required|in:light,dark"`
}

func NewPreferencesController(logger providers.Logger, themes ThemeServiceInterface) *PreferencesController {
	return &PreferencesController{logger: logger, themes: themes}
}

func (pc *PreferencesController) GetTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, themePayload{Theme: string(pc.themes.Theme())})
}

func (pc *PreferencesController) SetTheme(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload themePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "body must be a JSON object")
		return
	}
	v := validate.Struct(&payload)
	if !v.Validate() {
		writeError(w, http.StatusBadRequest, "INVALID_THEME", v.Errors.One())
		return
	}
	if err := pc.themes.SetTheme(models.Theme(payload.Theme)); err != nil {
		pc.logger.Debugf(providers.TypeApp, "Theme not saved: %s", err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "theme could not be saved")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (pc *PreferencesController) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := pc.themes.ToggleTheme()
	if err != nil {
		pc.logger.Debugf(providers.TypeApp, "Theme not saved: %s", err)
		writeError(w, http.StatusInternalServerError, "STORAGE_ERROR", "theme could not be saved")
		return
	}
	writeJSON(w, http.StatusOK, themePayload{Theme: string(theme)})
}
