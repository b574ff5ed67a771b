package util

import "github.com/google/uuid"

// NewID gera um UUID v7, ordenável lexicograficamente pela data de criação.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 só falha se a fonte de aleatoriedade do SO falhar.
		return uuid.NewString()
	}
	return id.String()
}
