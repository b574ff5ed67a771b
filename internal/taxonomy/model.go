package taxonomy

import "errors"

var ErrNotFound = errors.New("taxonomy entry not found")

// PollutionType é uma categoria de denúncia gerida por administradores.
type PollutionType struct {
	TypeID      string `json:"type_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Sector é uma zona administrativa usada para rotear denúncias.
type Sector struct {
	SectorID    string `json:"sector_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateInput encapsula campos comuns de criação das duas taxonomias.
type CreateInput struct {
	Name        string
	Description string
	IsActive    bool
}

// UpdateInput permite atualização parcial.
type UpdateInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}
