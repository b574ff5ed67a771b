package user

import "errors"

var ErrNotFound = errors.New("user not found")

// User representa uma conta de cidadão ou administrador.
type User struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	PasswordHash string `json:"password_hash"`
	Name         string `json:"name"`
	Phone        string `json:"phone,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// Public retorna a projeção sem o hash de senha, segura para respostas.
func (u *User) Public() map[string]any {
	return map[string]any{
		"user_id":    u.UserID,
		"email":      u.Email,
		"name":       u.Name,
		"phone":      u.Phone,
		"is_admin":   u.IsAdmin,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// CreateInput encapsula campos para criação de conta.
type CreateInput struct {
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	IsAdmin      bool
}

// UpdateInput permite atualização parcial de perfil e papel.
type UpdateInput struct {
	Name         *string
	Phone        *string
	IsAdmin      *bool
	PasswordHash *string
}
