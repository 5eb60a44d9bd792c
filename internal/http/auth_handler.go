package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/zyrnwastaken/mini-crm/internal/auth"
)

type AuthHandler struct {
	creds    auth.Credentials
	sessions *auth.SessionStore
}

func NewAuthHandler(creds auth.Credentials, sessions *auth.SessionStore) *AuthHandler {
	return &AuthHandler{
		creds:    creds,
		sessions: sessions,
	}
}

type LoginRequestDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponseDTO struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if !h.creds.Match(req.Username, req.Password) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "wrong username or password")
		return
	}

	session := h.sessions.Issue(req.Username)
	respondJSON(w, http.StatusOK, LoginResponseDTO{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// Logout revokes the caller's own token. It sits behind AuthMiddleware, so
// the token is known to be valid when it gets here.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		h.sessions.Revoke(token)
	}
	w.WriteHeader(http.StatusNoContent)
}
