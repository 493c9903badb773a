package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"remotive-ranker/internal/secrets"
)

type SecretsHandler struct{}

// SetTelegramToken stores the bot token in the OS keychain so it never
// lands in the config file.
func (h SecretsHandler) SetTelegramToken(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_json", "invalid JSON: "+err.Error())
		return
	}
	if strings.TrimSpace(body.Token) == "" {
		WriteError(w, r, http.StatusBadRequest, "empty_token", "token is empty")
		return
	}

	if err := secrets.SetTelegramToken(body.Token); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}

// DeleteTelegramToken removes the stored bot token from the keychain.
func (h SecretsHandler) DeleteTelegramToken(w http.ResponseWriter, r *http.Request) {
	if err := secrets.DeleteTelegramToken(); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "keyring_error", err.Error())
		return
	}
	writeJSON(w, map[string]any{"ok": true})
}
