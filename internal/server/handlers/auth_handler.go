package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/nptc-feedback/backend/internal/auth"
	"github.com/nptc-feedback/backend/internal/server/util"
)

// AuthHandler exposes the login check.
type AuthHandler struct {
	Auth *auth.Service
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		if errors.Is(err, io.EOF) {
			util.WriteError(w, http.StatusBadRequest, "Request body is empty", "")
			return
		}
		util.WriteError(w, http.StatusBadRequest, "Invalid request payload", "")
		return
	}

	result, err := h.Auth.Login(r.Context(), creds)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":  result.User,
		"token": result.Token,
	})
}
