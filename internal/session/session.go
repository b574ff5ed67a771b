package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gestaozabele/lapor/internal/kv"
	"github.com/gestaozabele/lapor/internal/util"
)

var ErrNotFound = errors.New("session not found")

// Session é a credencial efêmera de login referenciada pelo cookie.
type Session struct {
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Repository provê acesso à coleção de sessões.
type Repository struct {
	store kv.Store
}

// NewRepository cria instância do repositório.
func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

// Create grava a sessão com dica de expiração no próprio store, além do
// expires_at verificado preguiçosamente na leitura.
func (r *Repository) Create(ctx context.Context, userID string, ttl time.Duration) (*Session, error) {
	now := time.Now().UTC()
	sess := &Session{
		SessionID: util.NewID(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	// ttl não positivo ainda grava o registro; a expiração preguiçosa
	// na leitura cobre o caso.
	storeTTL := ttl
	if storeTTL < 0 {
		storeTTL = 0
	}
	if err := r.store.Set(ctx, kv.Key(kv.CollectionSessions, sess.SessionID), raw, storeTTL); err != nil {
		return nil, err
	}
	return sess, nil
}

// GetByID retorna a sessão válida ou ErrNotFound. Sessões expiradas são
// removidas no primeiro acesso após o vencimento.
func (r *Repository) GetByID(ctx context.Context, sessionID string) (*Session, error) {
	raw, err := r.store.Get(ctx, kv.Key(kv.CollectionSessions, sessionID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, err
	}

	if !sess.ExpiresAt.After(time.Now()) {
		if err := r.Delete(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Delete remove a sessão; idempotente.
func (r *Repository) Delete(ctx context.Context, sessionID string) error {
	return r.store.Delete(ctx, kv.Key(kv.CollectionSessions, sessionID))
}
