package report

import (
	"errors"
	"strings"
	"time"

	"github.com/gestaozabele/lapor/internal/geo"
)

var (
	ErrNotFound      = errors.New("report not found")
	ErrInvalidStatus = errors.New("invalid status")
)

// Estados do ciclo de vida de uma denúncia. Transições automáticas só
// saem de pending; resolved é exclusivo de ação administrativa.
const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
	StatusFailed    = "failed"
	StatusResolved  = "resolved"
)

var validStatuses = map[string]struct{}{
	StatusPending:   {},
	StatusSubmitted: {},
	StatusFailed:    {},
	StatusResolved:  {},
}

// IsValidStatus indica se o status é aceito.
func IsValidStatus(status string) bool {
	_, ok := validStatuses[strings.ToLower(strings.TrimSpace(status))]
	return ok
}

// IsTerminalStatus indica estados que o worker de envio não deve tocar.
func IsTerminalStatus(status string) bool {
	return status == StatusSubmitted || status == StatusResolved
}

// Report representa uma denúncia de poluição.
type Report struct {
	ReportID      string        `json:"report_id"`
	Timestamp     string        `json:"timestamp"`
	IPAddress     string        `json:"ip_address"`
	Location      *geo.Location `json:"location"`
	DeviceID      *string       `json:"device_id"`
	PollutionType string        `json:"pollution_type"`
	Sector        int           `json:"sector"`
	UserID        *string       `json:"user_id"`
	Status        string        `json:"status"`
	Description   *string       `json:"description,omitempty"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}

// CreateInput encapsula os campos de uma nova denúncia.
type CreateInput struct {
	Timestamp     string
	IPAddress     string
	Location      *geo.Location
	DeviceID      *string
	PollutionType string
	Sector        int
	UserID        *string
	Status        string
	Description   *string
}

// UpdateInput permite atualização parcial; campos nil são preservados.
type UpdateInput struct {
	Status        *string
	PollutionType *string
	Sector        *int
	Description   *string
}

// TimestampScore converte o timestamp em score numérico para os índices.
// Timestamps ilegíveis viram score zero (entram no fim da ordenação).
func TimestampScore(timestamp string) float64 {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return 0
	}
	return float64(t.UnixMilli())
}
