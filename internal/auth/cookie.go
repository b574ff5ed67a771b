package auth

import (
	"net/http"
	"strings"
)

// SessionCookieName é o nome do cookie que carrega o id da sessão.
const SessionCookieName = "sessionId"

// sessionCookieMaxAge limita o cookie a 24 horas, o mesmo TTL da sessão.
const sessionCookieMaxAge = 24 * 60 * 60

// SessionFromCookieHeader extrai o id da sessão de um header Cookie cru.
// Retorna vazio quando o cookie não está presente.
func SessionFromCookieHeader(header string) string {
	if header == "" {
		return ""
	}
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if value, ok := strings.CutPrefix(part, SessionCookieName+"="); ok {
			return value
		}
	}
	return ""
}

// SessionFromRequest resolve o id de sessão da requisição; vazio
// significa anônimo.
func SessionFromRequest(r *http.Request) string {
	return SessionFromCookieHeader(r.Header.Get("Cookie"))
}

// NewSessionCookie monta o cookie de sessão com os atributos fixos.
func NewSessionCookie(sessionID string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionCookieMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredSessionCookie monta o cookie que remove a sessão do navegador.
func ExpiredSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}
