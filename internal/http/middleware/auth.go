package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/lapor/internal/auth"
	"github.com/gestaozabele/lapor/internal/user"
)

type contextKey string

const userContextKey contextKey = "current_user"

// sessionResolver é o recorte do serviço de autenticação usado aqui.
type sessionResolver interface {
	UserFromSession(ctx context.Context, sessionID string) (*user.User, error)
}

// SessionAuth resolve o cookie de sessão e, quando válido, injeta o
// usuário no contexto. Requisições sem sessão seguem como anônimas;
// quem exige autenticação é RequireUser/RequireAdmin.
func SessionAuth(resolver sessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := auth.SessionFromRequest(r)
			if sessionID == "" {
				next.ServeHTTP(w, r)
				return
			}

			u, err := resolver.UserFromSession(r.Context(), sessionID)
			if err != nil {
				log.Error().Err(err).Msg("auth: falha ao resolver sessão")
				writeAuthError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if u == nil {
				// sessão expirada ou órfã: segue anônimo
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser bloqueia requisições anônimas.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r.Context()) == nil {
			writeAuthError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin bloqueia quem não tem papel administrativo.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := CurrentUser(r.Context())
		if u == nil {
			writeAuthError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !u.IsAdmin {
			writeAuthError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CurrentUser retorna o usuário autenticado ou nil.
func CurrentUser(ctx context.Context) *user.User {
	u, _ := ctx.Value(userContextKey).(*user.User)
	return u
}

// WithUser injeta um usuário no contexto; útil em testes de handlers.
func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}
