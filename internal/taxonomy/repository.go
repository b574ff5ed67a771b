package taxonomy

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/gestaozabele/lapor/internal/kv"
	"github.com/gestaozabele/lapor/internal/util"
)

// TypeRepository provê acesso à coleção de tipos de poluição.
type TypeRepository struct {
	store kv.Store
}

// NewTypeRepository cria instância do repositório.
func NewTypeRepository(store kv.Store) *TypeRepository {
	return &TypeRepository{store: store}
}

// Create grava um novo tipo.
func (r *TypeRepository) Create(ctx context.Context, input CreateInput) (*PollutionType, error) {
	now := util.NowISO()
	t := &PollutionType{
		TypeID:      util.NewID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		IsActive:    input.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := writeJSON(ctx, r.store, kv.Key(kv.CollectionPollutionTypes, t.TypeID), t); err != nil {
		return nil, err
	}
	return t, nil
}

// GetByID busca um tipo específico.
func (r *TypeRepository) GetByID(ctx context.Context, typeID string) (*PollutionType, error) {
	var t PollutionType
	if err := readJSON(ctx, r.store, kv.Key(kv.CollectionPollutionTypes, typeID), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAll lista todos os tipos ordenados por nome.
func (r *TypeRepository) GetAll(ctx context.Context) ([]PollutionType, error) {
	keys, err := r.store.Scan(ctx, kv.CollectionPollutionTypes+":")
	if err != nil {
		return nil, err
	}

	types := make([]PollutionType, 0, len(keys))
	for _, key := range keys {
		var t PollutionType
		if err := readJSON(ctx, r.store, key, &t); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

// GetActive filtra apenas tipos habilitados para o formulário público.
func (r *TypeRepository) GetActive(ctx context.Context) ([]PollutionType, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]PollutionType, 0, len(all))
	for _, t := range all {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active, nil
}

// Update aplica campos parciais e atualiza updated_at.
func (r *TypeRepository) Update(ctx context.Context, typeID string, input UpdateInput) (*PollutionType, error) {
	t, err := r.GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		t.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		t.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsActive != nil {
		t.IsActive = *input.IsActive
	}
	t.UpdatedAt = util.NowISO()

	if err := writeJSON(ctx, r.store, kv.Key(kv.CollectionPollutionTypes, t.TypeID), t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete remove o tipo; retorna false quando não existe.
func (r *TypeRepository) Delete(ctx context.Context, typeID string) (bool, error) {
	if _, err := r.GetByID(ctx, typeID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := r.store.Delete(ctx, kv.Key(kv.CollectionPollutionTypes, typeID)); err != nil {
		return false, err
	}
	return true, nil
}

// SectorRepository provê acesso à coleção de setores.
type SectorRepository struct {
	store kv.Store
}

// NewSectorRepository cria instância do repositório.
func NewSectorRepository(store kv.Store) *SectorRepository {
	return &SectorRepository{store: store}
}

// Create grava um novo setor.
func (r *SectorRepository) Create(ctx context.Context, input CreateInput) (*Sector, error) {
	now := util.NowISO()
	s := &Sector{
		SectorID:    util.NewID(),
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		IsActive:    input.IsActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := writeJSON(ctx, r.store, kv.Key(kv.CollectionSectors, s.SectorID), s); err != nil {
		return nil, err
	}
	return s, nil
}

// GetByID busca um setor específico.
func (r *SectorRepository) GetByID(ctx context.Context, sectorID string) (*Sector, error) {
	var s Sector
	if err := readJSON(ctx, r.store, kv.Key(kv.CollectionSectors, sectorID), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetAll lista todos os setores ordenados por nome.
func (r *SectorRepository) GetAll(ctx context.Context) ([]Sector, error) {
	keys, err := r.store.Scan(ctx, kv.CollectionSectors+":")
	if err != nil {
		return nil, err
	}

	sectors := make([]Sector, 0, len(keys))
	for _, key := range keys {
		var s Sector
		if err := readJSON(ctx, r.store, key, &s); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		sectors = append(sectors, s)
	}
	sort.Slice(sectors, func(i, j int) bool { return sectors[i].Name < sectors[j].Name })
	return sectors, nil
}

// GetActive filtra apenas setores habilitados.
func (r *SectorRepository) GetActive(ctx context.Context) ([]Sector, error) {
	all, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	active := make([]Sector, 0, len(all))
	for _, s := range all {
		if s.IsActive {
			active = append(active, s)
		}
	}
	return active, nil
}

// Update aplica campos parciais e atualiza updated_at.
func (r *SectorRepository) Update(ctx context.Context, sectorID string, input UpdateInput) (*Sector, error) {
	s, err := r.GetByID(ctx, sectorID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		s.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		s.Description = strings.TrimSpace(*input.Description)
	}
	if input.IsActive != nil {
		s.IsActive = *input.IsActive
	}
	s.UpdatedAt = util.NowISO()

	if err := writeJSON(ctx, r.store, kv.Key(kv.CollectionSectors, s.SectorID), s); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete remove o setor; retorna false quando não existe.
func (r *SectorRepository) Delete(ctx context.Context, sectorID string) (bool, error) {
	if _, err := r.GetByID(ctx, sectorID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if err := r.store.Delete(ctx, kv.Key(kv.CollectionSectors, sectorID)); err != nil {
		return false, err
	}
	return true, nil
}

func writeJSON(ctx context.Context, store kv.Store, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, raw, 0)
}

func readJSON(ctx context.Context, store kv.Store, key string, out any) error {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return json.Unmarshal(raw, out)
}
