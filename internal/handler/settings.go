package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rivertonapps/famcoin/internal/allocation"
	"github.com/rivertonapps/famcoin/internal/store"
)

type SettingsHandler struct {
	settings *store.SettingsStore
}

func NewSettingsHandler(settings *store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

type engineSettings struct {
	ConversionRate  float64 `json:"conversion_rate"`
	RemainderPolicy string  `json:"remainder_policy"`
	CurrencyCode    string  `json:"currency_code"`
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rate, err := h.settings.ConversionRate()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	policy, err := h.settings.RemainderPolicy()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	code, err := h.settings.Get(store.SettingCurrencyCode)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	writeJSON(w, http.StatusOK, engineSettings{
		ConversionRate:  rate,
		RemainderPolicy: string(allocation.ParsePolicy(policy)),
		CurrencyCode:    code,
	})
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req engineSettings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	if req.ConversionRate <= 0 {
		writeError(w, http.StatusBadRequest, "conversion_rate must be positive")
		return
	}
	policy := allocation.ParsePolicy(req.RemainderPolicy)

	if err := h.settings.Set(store.SettingConversionRate, strconv.FormatFloat(req.ConversionRate, 'f', -1, 64)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	if err := h.settings.Set(store.SettingRemainderPolicy, string(policy)); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	if req.CurrencyCode != "" {
		if err := h.settings.Set(store.SettingCurrencyCode, req.CurrencyCode); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to save settings")
			return
		}
	}

	h.Get(w, r)
}
