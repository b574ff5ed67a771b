package http

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/lapor/internal/auth"
	httpmiddleware "github.com/gestaozabele/lapor/internal/http/middleware"
	"github.com/gestaozabele/lapor/internal/service"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register cria conta comum e já emite sessão, para o cidadão sair do
// formulário autenticado.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	u, err := h.auth.Register(r.Context(), body.Email, body.Password, body.Name, body.Phone)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			WriteError(w, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, service.ErrEmailTaken):
			WriteError(w, http.StatusConflict, "User already exists with this email")
		default:
			log.Error().Err(err).Msg("http: falha no registro")
			WriteError(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}

	// login automático pós-registro; se falhar, a conta já existe e o
	// cidadão autentica manualmente
	if _, sessionID, err := h.auth.Login(r.Context(), body.Email, body.Password); err == nil {
		http.SetCookie(w, auth.NewSessionCookie(sessionID))
	}

	WriteSuccess(w, http.StatusCreated, map[string]any{
		"message": "Registration successful",
		"user":    u.Public(),
	})
}

// Login autentica e grava o cookie de sessão.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if body.Email == "" || body.Password == "" {
		WriteError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, sessionID, err := h.auth.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		log.Error().Err(err).Msg("http: falha no login")
		WriteError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	http.SetCookie(w, auth.NewSessionCookie(sessionID))
	WriteSuccess(w, http.StatusOK, map[string]any{
		"message": "Login successful",
		"user":    u.Public(),
	})
}

// Logout encerra a sessão e expira o cookie; idempotente.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionID := auth.SessionFromRequest(r); sessionID != "" {
		if err := h.auth.Logout(r.Context(), sessionID); err != nil {
			log.Error().Err(err).Msg("http: falha no logout")
			WriteError(w, http.StatusInternalServerError, "Logout failed")
			return
		}
	}

	http.SetCookie(w, auth.ExpiredSessionCookie())
	WriteSuccess(w, http.StatusOK, map[string]any{"message": "Logout successful"})
}

// Me devolve o perfil da sessão corrente.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	if auth.SessionFromRequest(r) == "" {
		WriteError(w, http.StatusUnauthorized, "No session found")
		return
	}

	u := httpmiddleware.CurrentUser(r.Context())
	if u == nil {
		WriteError(w, http.StatusUnauthorized, "Invalid session")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"user": u.Public()})
}
