package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gestaozabele/lapor/internal/kv"
	"github.com/gestaozabele/lapor/internal/util"
)

// Repository provê acesso à coleção de usuários e ao índice por e-mail.
type Repository struct {
	store kv.Store
}

// NewRepository cria instância do repositório.
func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

// Create grava o registro primário e o índice users_by_email. A
// unicidade do e-mail é checada pelo serviço antes da escrita
// (read-before-write, janela de corrida documentada).
func (r *Repository) Create(ctx context.Context, input CreateInput) (*User, error) {
	now := util.NowISO()
	u := &User{
		UserID:       util.NewID(),
		Email:        input.Email,
		PasswordHash: input.PasswordHash,
		Name:         input.Name,
		Phone:        input.Phone,
		IsAdmin:      input.IsAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := r.write(ctx, u); err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, kv.Key(kv.IndexUsersByEmail, u.Email), []byte(u.UserID), 0); err != nil {
		return nil, fmt.Errorf("index email: %w", err)
	}
	return u, nil
}

// GetByID busca um usuário pelo id.
func (r *Repository) GetByID(ctx context.Context, userID string) (*User, error) {
	raw, err := r.store.Get(ctx, kv.Key(kv.CollectionUsers, userID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail resolve o índice por e-mail e busca o registro primário.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	raw, err := r.store.Get(ctx, kv.Key(kv.IndexUsersByEmail, email))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.GetByID(ctx, string(raw))
}

// GetAll lista usuários ordenados por chave (id ordenável por criação).
func (r *Repository) GetAll(ctx context.Context) ([]User, error) {
	keys, err := r.store.Scan(ctx, kv.CollectionUsers+":")
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(keys))
	for _, key := range keys {
		id := strings.TrimPrefix(key, kv.CollectionUsers+":")
		u, err := r.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// Update aplica campos parciais e atualiza updated_at.
func (r *Repository) Update(ctx context.Context, userID string, input UpdateInput) (*User, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		u.Name = *input.Name
	}
	if input.Phone != nil {
		u.Phone = *input.Phone
	}
	if input.IsAdmin != nil {
		u.IsAdmin = *input.IsAdmin
	}
	if input.PasswordHash != nil {
		u.PasswordHash = *input.PasswordHash
	}
	u.UpdatedAt = util.NowISO()

	if err := r.write(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete remove o usuário e sua entrada no índice por e-mail.
func (r *Repository) Delete(ctx context.Context, userID string) (bool, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := r.store.Delete(ctx, kv.Key(kv.CollectionUsers, userID)); err != nil {
		return false, err
	}
	if err := r.store.Delete(ctx, kv.Key(kv.IndexUsersByEmail, u.Email)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) write(ctx context.Context, u *User) error {
	raw, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, kv.Key(kv.CollectionUsers, u.UserID), raw, 0)
}
