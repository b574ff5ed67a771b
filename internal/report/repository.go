package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gestaozabele/lapor/internal/kv"
	"github.com/gestaozabele/lapor/internal/util"
)

// Repository provê acesso à coleção de denúncias e seus índices.
type Repository struct {
	store kv.Store
}

// NewRepository cria instância do repositório.
func NewRepository(store kv.Store) *Repository {
	return &Repository{store: store}
}

// Create grava o registro primário e em seguida os índices secundários.
// As escritas não são transacionais: um índice órfão ou ausente é lido
// como "não encontrado" pelos scans, nunca como corrupção.
func (r *Repository) Create(ctx context.Context, input CreateInput) (*Report, error) {
	now := util.NowISO()
	rep := &Report{
		ReportID:      util.NewID(),
		Timestamp:     input.Timestamp,
		IPAddress:     input.IPAddress,
		Location:      input.Location,
		DeviceID:      input.DeviceID,
		PollutionType: input.PollutionType,
		Sector:        input.Sector,
		UserID:        input.UserID,
		Status:        input.Status,
		Description:   input.Description,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if rep.Status == "" {
		rep.Status = StatusPending
	}
	if rep.Timestamp == "" {
		rep.Timestamp = now
	}

	if err := r.write(ctx, rep); err != nil {
		return nil, err
	}

	score := TimestampScore(rep.Timestamp)
	tsMember := rep.Timestamp + "|" + rep.ReportID
	if err := r.store.ZAdd(ctx, kv.IndexReportsByTimestamp, tsMember, score); err != nil {
		return nil, fmt.Errorf("index timestamp: %w", err)
	}
	sectorKey := kv.Key(kv.IndexReportsBySector, strconv.Itoa(rep.Sector))
	if err := r.store.ZAdd(ctx, sectorKey, rep.ReportID, score); err != nil {
		return nil, fmt.Errorf("index sector: %w", err)
	}
	if rep.UserID != nil && *rep.UserID != "" {
		userKey := kv.Key(kv.IndexReportsByUser, *rep.UserID)
		if err := r.store.ZAdd(ctx, userKey, rep.ReportID, score); err != nil {
			return nil, fmt.Errorf("index user: %w", err)
		}
	}

	return rep, nil
}

// GetByID busca uma denúncia específica.
func (r *Repository) GetByID(ctx context.Context, reportID string) (*Report, error) {
	raw, err := r.store.Get(ctx, kv.Key(kv.CollectionReports, reportID))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var rep Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil, err
	}
	return &rep, nil
}

// GetAll lista denúncias em ordem decrescente de timestamp.
func (r *Repository) GetAll(ctx context.Context, limit, offset int) ([]Report, error) {
	limit = normalizeLimit(limit)
	if offset < 0 {
		offset = 0
	}

	members, err := r.store.ZRevRange(ctx, kv.IndexReportsByTimestamp, int64(offset), int64(offset+limit-1))
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(members))
	for _, member := range members {
		id := member
		if idx := strings.LastIndex(member, "|"); idx >= 0 {
			id = member[idx+1:]
		}
		rep, err := r.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				// entrada de índice órfã; registro foi removido
				continue
			}
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, nil
}

// GetBySector lista denúncias de um setor, mais recentes primeiro.
func (r *Repository) GetBySector(ctx context.Context, sector, limit int) ([]Report, error) {
	key := kv.Key(kv.IndexReportsBySector, strconv.Itoa(sector))
	return r.collectByIndex(ctx, key, limit)
}

// GetByUser lista denúncias de um usuário, mais recentes primeiro.
func (r *Repository) GetByUser(ctx context.Context, userID string, limit int) ([]Report, error) {
	key := kv.Key(kv.IndexReportsByUser, userID)
	return r.collectByIndex(ctx, key, limit)
}

func (r *Repository) collectByIndex(ctx context.Context, key string, limit int) ([]Report, error) {
	limit = normalizeLimit(limit)

	ids, err := r.store.ZRevRange(ctx, key, 0, int64(limit-1))
	if err != nil {
		return nil, err
	}

	reports := make([]Report, 0, len(ids))
	for _, id := range ids {
		rep, err := r.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		reports = append(reports, *rep)
	}
	return reports, nil
}

// Update aplica campos parciais e atualiza updated_at. Retorna
// ErrNotFound quando a denúncia não existe.
func (r *Repository) Update(ctx context.Context, reportID string, input UpdateInput) (*Report, error) {
	rep, err := r.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*input.Status))
		if !IsValidStatus(status) {
			return nil, ErrInvalidStatus
		}
		rep.Status = status
	}
	if input.PollutionType != nil {
		rep.PollutionType = *input.PollutionType
	}
	if input.Sector != nil {
		rep.Sector = *input.Sector
	}
	if input.Description != nil {
		rep.Description = input.Description
	}
	rep.UpdatedAt = util.NowISO()

	if err := r.write(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Delete remove apenas o registro primário. Entradas de índice que
// sobrarem são ignoradas pelos scans (lacuna aceita do modelo).
func (r *Repository) Delete(ctx context.Context, reportID string) (bool, error) {
	if _, err := r.GetByID(ctx, reportID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := r.store.Delete(ctx, kv.Key(kv.CollectionReports, reportID)); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) write(ctx context.Context, rep *Report) error {
	raw, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, kv.Key(kv.CollectionReports, rep.ReportID), raw, 0)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 100
	}
	return limit
}
