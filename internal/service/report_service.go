package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/lapor/internal/device"
	"github.com/gestaozabele/lapor/internal/geo"
	"github.com/gestaozabele/lapor/internal/report"
	"github.com/gestaozabele/lapor/internal/taxonomy"
	"github.com/gestaozabele/lapor/internal/user"
	"github.com/gestaozabele/lapor/internal/util"
)

type reportRepository interface {
	Create(ctx context.Context, input report.CreateInput) (*report.Report, error)
	GetByID(ctx context.Context, reportID string) (*report.Report, error)
	GetAll(ctx context.Context, limit, offset int) ([]report.Report, error)
	GetBySector(ctx context.Context, sector, limit int) ([]report.Report, error)
	GetByUser(ctx context.Context, userID string, limit int) ([]report.Report, error)
	Update(ctx context.Context, reportID string, input report.UpdateInput) (*report.Report, error)
	Delete(ctx context.Context, reportID string) (bool, error)
}

type typeLister interface {
	GetActive(ctx context.Context) ([]taxonomy.PollutionType, error)
}

type sectorLister interface {
	GetActive(ctx context.Context) ([]taxonomy.Sector, error)
}

type locationResolver interface {
	Resolve(ctx context.Context, ipAddress string) *geo.Location
}

type forwardQueue interface {
	Enqueue(ctx context.Context, reportID string) error
}

type sessionUserResolver interface {
	UserFromSession(ctx context.Context, sessionID string) (*user.User, error)
}

// SubmitInput é o corpo da requisição pública de denúncia.
type SubmitInput struct {
	PollutionType  string
	Sector         string
	Description    string
	ClientDeviceID string
}

// SubmitContext carrega o que a camada HTTP extraiu da requisição.
type SubmitContext struct {
	IPAddress         string
	ServerFingerprint string
	SessionID         string
}

// ListFilter seleciona denúncias por setor ou usuário, com paginação.
type ListFilter struct {
	Sector *int
	UserID string
	Limit  int
	Offset int
}

// ReportService orquestra o pipeline de submissão e as operações
// administrativas sobre denúncias.
type ReportService struct {
	reports  reportRepository
	types    typeLister
	sectors  sectorLister
	locator  locationResolver
	outbox   forwardQueue
	sessions sessionUserResolver
}

// NewReportService cria novo serviço.
func NewReportService(reports reportRepository, types typeLister, sectors sectorLister, locator locationResolver, outbox forwardQueue, sessions sessionUserResolver) *ReportService {
	return &ReportService{
		reports:  reports,
		types:    types,
		sectors:  sectors,
		locator:  locator,
		outbox:   outbox,
		sessions: sessions,
	}
}

// Submit valida, enriquece e persiste uma denúncia, e agenda o envio ao
// SISPAA. O report_id retorna assim que a persistência local termina; o
// envio externo acontece fora do ciclo da requisição.
func (s *ReportService) Submit(ctx context.Context, input SubmitInput, reqCtx SubmitContext) (*report.Report, error) {
	typeCode, err := s.validatePollutionType(ctx, input.PollutionType)
	if err != nil {
		return nil, err
	}
	sectorNum, err := s.validateSector(ctx, input.Sector)
	if err != nil {
		return nil, err
	}

	// enriquecimentos são best-effort; nenhum bloqueia a denúncia
	location := s.locator.Resolve(ctx, reqCtx.IPAddress)
	deviceID := device.Combine(reqCtx.ServerFingerprint, strings.TrimSpace(input.ClientDeviceID))

	var userID *string
	if reqCtx.SessionID != "" {
		u, err := s.sessions.UserFromSession(ctx, reqCtx.SessionID)
		if err != nil {
			return nil, err
		}
		if u != nil {
			userID = &u.UserID
		}
	}

	var description *string
	if desc := strings.TrimSpace(input.Description); desc != "" {
		description = &desc
	}

	rep, err := s.reports.Create(ctx, report.CreateInput{
		Timestamp:     util.NowISO(),
		IPAddress:     reqCtx.IPAddress,
		Location:      location,
		DeviceID:      &deviceID,
		PollutionType: typeCode,
		Sector:        sectorNum,
		UserID:        userID,
		Status:        report.StatusPending,
		Description:   description,
	})
	if err != nil {
		return nil, err
	}

	// falha ao enfileirar não desfaz a denúncia; o cidadão não é
	// bloqueado pela indisponibilidade do sistema externo
	if err := s.outbox.Enqueue(ctx, rep.ReportID); err != nil {
		log.Error().Err(err).Str("report_id", rep.ReportID).Msg("report: falha ao enfileirar envio SISPAA")
	}

	return rep, nil
}

// List aplica o filtro: setor e usuário são mutuamente exclusivos,
// setor prevalece (comportamento herdado da listagem administrativa).
func (s *ReportService) List(ctx context.Context, filter ListFilter) ([]report.Report, error) {
	switch {
	case filter.Sector != nil:
		return s.reports.GetBySector(ctx, *filter.Sector, filter.Limit)
	case filter.UserID != "":
		return s.reports.GetByUser(ctx, filter.UserID, filter.Limit)
	default:
		return s.reports.GetAll(ctx, filter.Limit, filter.Offset)
	}
}

// GetByID busca uma denúncia específica.
func (s *ReportService) GetByID(ctx context.Context, reportID string) (*report.Report, error) {
	return s.reports.GetByID(ctx, reportID)
}

// UpdateStatus aplica transição administrativa de status.
func (s *ReportService) UpdateStatus(ctx context.Context, reportID, status string) (*report.Report, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !report.IsValidStatus(status) {
		return nil, report.ErrInvalidStatus
	}
	return s.reports.Update(ctx, reportID, report.UpdateInput{Status: &status})
}

// Delete remove uma denúncia por ação administrativa explícita.
func (s *ReportService) Delete(ctx context.Context, reportID string) (bool, error) {
	return s.reports.Delete(ctx, reportID)
}

// validatePollutionType aceita o slug de um tipo ativo, o nome exato,
// ou um código curto legado que mapeie para um tipo ativo. Retorna o
// código normalizado gravado no registro.
func (s *ReportService) validatePollutionType(ctx context.Context, value string) (string, error) {
	code := strings.TrimSpace(value)
	if code == "" {
		return "", &ValidationError{Reason: "Invalid pollution type"}
	}

	active, err := s.types.GetActive(ctx)
	if err != nil {
		return "", err
	}

	for _, t := range active {
		if t.Name == code {
			return taxonomy.Slug(t.Name), nil
		}
		if taxonomy.Slug(t.Name) == code {
			return code, nil
		}
	}

	if legacyName := taxonomy.LegacyTypeName(code); legacyName != "" {
		for _, t := range active {
			if t.Name == legacyName {
				return code, nil
			}
		}
	}

	return "", &ValidationError{Reason: "Invalid pollution type"}
}

// validateSector aceita o índice 1-based dentro da faixa de setores
// ativos.
func (s *ReportService) validateSector(ctx context.Context, value string) (int, error) {
	active, err := s.sectors.GetActive(ctx)
	if err != nil {
		return 0, err
	}

	rangeError := &ValidationError{Reason: fmt.Sprintf("Invalid sector (must be 1-%d)", len(active))}

	sectorNum, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, rangeError
	}
	if sectorNum < 1 || sectorNum > len(active) {
		return 0, rangeError
	}
	return sectorNum, nil
}
