package service

import (
	"context"
	"errors"

	"github.com/gestaozabele/lapor/internal/user"
)

var (
	// ErrSelfDelete impede o administrador de remover a própria conta.
	ErrSelfDelete = errors.New("não é possível remover a própria conta")
	// ErrSelfDemote impede o administrador de revogar o próprio papel,
	// evitando lockout da retaguarda.
	ErrSelfDemote = errors.New("não é possível revogar o próprio papel de administrador")
)

type adminUserRepository interface {
	GetAll(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, userID string) (*user.User, error)
	Update(ctx context.Context, userID string, input user.UpdateInput) (*user.User, error)
	Delete(ctx context.Context, userID string) (bool, error)
}

// UserService reúne as operações administrativas sobre contas.
type UserService struct {
	users adminUserRepository
}

// NewUserService cria novo serviço.
func NewUserService(users adminUserRepository) *UserService {
	return &UserService{users: users}
}

// List retorna todas as contas.
func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	return s.users.GetAll(ctx)
}

// Update aplica edição administrativa de perfil/papel. actorID é o
// administrador autenticado executando a ação.
func (s *UserService) Update(ctx context.Context, actorID, targetID string, input user.UpdateInput) (*user.User, error) {
	if input.IsAdmin != nil && !*input.IsAdmin && actorID == targetID {
		return nil, ErrSelfDemote
	}
	return s.users.Update(ctx, targetID, input)
}

// Delete remove uma conta por ação administrativa.
func (s *UserService) Delete(ctx context.Context, actorID, targetID string) (bool, error) {
	if actorID == targetID {
		return false, ErrSelfDelete
	}
	return s.users.Delete(ctx, targetID)
}
