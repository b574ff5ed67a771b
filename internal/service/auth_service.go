package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/lapor/internal/auth"
	"github.com/gestaozabele/lapor/internal/session"
	"github.com/gestaozabele/lapor/internal/user"
	"github.com/gestaozabele/lapor/internal/util"
)

var (
	// ErrInvalidCredentials indica falha na autenticação. A mensagem ao
	// usuário é idêntica para e-mail desconhecido e senha errada.
	ErrInvalidCredentials = errors.New("credenciais inválidas")
	// ErrEmailTaken indica e-mail já registrado.
	ErrEmailTaken = errors.New("e-mail já registrado")
)

// ValidationError carrega a razão legível de uma entrada rejeitada.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type userRepository interface {
	Create(ctx context.Context, input user.CreateInput) (*user.User, error)
	GetByID(ctx context.Context, userID string) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type sessionRepository interface {
	Create(ctx context.Context, userID string, ttl time.Duration) (*session.Session, error)
	GetByID(ctx context.Context, sessionID string) (*session.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// AuthService concentra registro, login e resolução de sessões.
type AuthService struct {
	users      userRepository
	sessions   sessionRepository
	sessionTTL time.Duration
}

// NewAuthService cria novo serviço.
func NewAuthService(users userRepository, sessions sessionRepository, sessionTTL time.Duration) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &AuthService{users: users, sessions: sessions, sessionTTL: sessionTTL}
}

// Register cria uma conta comum. A unicidade do e-mail é checada por
// leitura prévia; a janela de corrida é aceita pelo domínio.
func (s *AuthService) Register(ctx context.Context, email, password, name, phone string) (*user.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" || password == "" || name == "" {
		return nil, &ValidationError{Reason: "Email, password, and name are required"}
	}
	if !util.IsValidEmail(email) {
		return nil, &ValidationError{Reason: "Invalid email format"}
	}
	if check := util.ValidatePassword(password); !check.Valid {
		return nil, &ValidationError{Reason: check.Reason}
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hash, salt, err := auth.HashPassword(password, nil)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, user.CreateInput{
		Email:        email,
		PasswordHash: auth.EncodeCredential(hash, salt),
		Name:         name,
		Phone:        strings.TrimSpace(phone),
	})
}

// Login autentica e emite uma sessão. Retorna ErrInvalidCredentials
// uniformemente, sem sinalizar se o e-mail existe.
func (s *AuthService) Login(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	hash, salt, ok := auth.DecodeCredential(u.PasswordHash)
	if !ok || !auth.VerifyPassword(password, hash, salt) {
		return nil, "", ErrInvalidCredentials
	}

	sess, err := s.sessions.Create(ctx, u.UserID, s.sessionTTL)
	if err != nil {
		return nil, "", err
	}
	return u, sess.SessionID, nil
}

// Logout remove a sessão; idempotente.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// UserFromSession resolve sessão em usuário. Sessão ausente, expirada
// ou órfã resulta em nil (anônimo), nunca em erro de autenticação.
func (s *AuthService) UserFromSession(ctx context.Context, sessionID string) (*user.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			log.Warn().Str("session_id", sessionID).Msg("auth: sessão aponta para usuário removido")
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}
