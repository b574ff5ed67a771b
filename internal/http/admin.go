package http

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	httpmiddleware "github.com/gestaozabele/lapor/internal/http/middleware"
	"github.com/gestaozabele/lapor/internal/service"
	"github.com/gestaozabele/lapor/internal/taxonomy"
	"github.com/gestaozabele/lapor/internal/user"
	"github.com/gestaozabele/lapor/internal/util"
)

type taxonomyCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type taxonomyUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

func (req *taxonomyCreateRequest) toInput() (taxonomy.CreateInput, string) {
	if !util.RequireString(req.Name) {
		return taxonomy.CreateInput{}, "Name is required"
	}
	name := strings.TrimSpace(req.Name)
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return taxonomy.CreateInput{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsActive:    isActive,
	}, ""
}

func (req *taxonomyUpdateRequest) toInput() (taxonomy.UpdateInput, string) {
	input := taxonomy.UpdateInput{
		Description: req.Description,
		IsActive:    req.IsActive,
	}
	if req.Name != nil {
		if !util.RequireString(*req.Name) {
			return taxonomy.UpdateInput{}, "Name must be a non-empty string"
		}
		name := strings.TrimSpace(*req.Name)
		input.Name = &name
	}
	return input, ""
}

// ListPollutionTypes devolve todos os tipos, inclusive inativos.
func (h *Handler) ListPollutionTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.types.GetAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao listar tipos")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteSuccess(w, http.StatusOK, map[string]any{"data": types})
}

// CreatePollutionType cria um tipo de poluição.
func (h *Handler) CreatePollutionType(w http.ResponseWriter, r *http.Request) {
	var body taxonomyCreateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	input, reason := body.toInput()
	if reason != "" {
		WriteError(w, http.StatusBadRequest, reason)
		return
	}

	created, err := h.types.Create(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao criar tipo")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteSuccess(w, http.StatusCreated, map[string]any{"data": created})
}

// UpdatePollutionType aplica atualização parcial de um tipo.
func (h *Handler) UpdatePollutionType(w http.ResponseWriter, r *http.Request) {
	var body taxonomyUpdateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	input, reason := body.toInput()
	if reason != "" {
		WriteError(w, http.StatusBadRequest, reason)
		return
	}

	updated, err := h.types.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Pollution type not found")
			return
		}
		log.Error().Err(err).Msg("http: falha ao atualizar tipo")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteSuccess(w, http.StatusOK, map[string]any{"data": updated})
}

// DeletePollutionType remove um tipo definitivamente. Denúncias
// existentes seguem com o código gravado e são resolvidas na exibição.
func (h *Handler) DeletePollutionType(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.types.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao remover tipo")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Pollution type not found")
		return
	}
	WriteSuccess(w, http.StatusOK, map[string]any{"message": "Pollution type deleted successfully"})
}

// ListSectors devolve todos os setores, inclusive inativos.
func (h *Handler) ListSectors(w http.ResponseWriter, r *http.Request) {
	sectors, err := h.sectors.GetAll(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao listar setores")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteSuccess(w, http.StatusOK, map[string]any{"data": sectors})
}

// CreateSector cria um setor.
func (h *Handler) CreateSector(w http.ResponseWriter, r *http.Request) {
	var body taxonomyCreateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	input, reason := body.toInput()
	if reason != "" {
		WriteError(w, http.StatusBadRequest, reason)
		return
	}

	created, err := h.sectors.Create(r.Context(), input)
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao criar setor")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteSuccess(w, http.StatusCreated, map[string]any{"data": created})
}

// UpdateSector aplica atualização parcial de um setor.
func (h *Handler) UpdateSector(w http.ResponseWriter, r *http.Request) {
	var body taxonomyUpdateRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	input, reason := body.toInput()
	if reason != "" {
		WriteError(w, http.StatusBadRequest, reason)
		return
	}

	updated, err := h.sectors.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		if errors.Is(err, taxonomy.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Sector not found")
			return
		}
		log.Error().Err(err).Msg("http: falha ao atualizar setor")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteSuccess(w, http.StatusOK, map[string]any{"data": updated})
}

// DeleteSector remove um setor definitivamente.
func (h *Handler) DeleteSector(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.sectors.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao remover setor")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Sector not found")
		return
	}
	WriteSuccess(w, http.StatusOK, map[string]any{"message": "Sector deleted successfully"})
}

type userUpdateRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	IsAdmin *bool   `json:"is_admin"`
}

// ListUsers devolve as contas em projeção segura, sem hash de senha,
// mais recentes primeiro.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao listar usuários")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt > users[j].CreatedAt
	})

	safe := make([]map[string]any, 0, len(users))
	for i := range users {
		safe = append(safe, users[i].Public())
	}
	WriteSuccess(w, http.StatusOK, map[string]any{"users": safe})
}

// UpdateUser aplica edição administrativa de perfil e papel.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var body userUpdateRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	actor := httpmiddleware.CurrentUser(r.Context())
	updated, err := h.users.Update(r.Context(), actor.UserID, chi.URLParam(r, "id"), user.UpdateInput{
		Name:    body.Name,
		Phone:   body.Phone,
		IsAdmin: body.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSelfDemote):
			WriteError(w, http.StatusBadRequest, "Cannot remove your own admin privileges")
		case errors.Is(err, user.ErrNotFound):
			WriteError(w, http.StatusNotFound, "User not found")
		default:
			log.Error().Err(err).Msg("http: falha ao atualizar usuário")
			WriteError(w, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"user": updated.Public()})
}

// DeleteUser remove uma conta. Denúncias do usuário são preservadas.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := httpmiddleware.CurrentUser(r.Context())
	deleted, err := h.users.Delete(r.Context(), actor.UserID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, service.ErrSelfDelete) {
			WriteError(w, http.StatusBadRequest, "Cannot delete your own account")
			return
		}
		log.Error().Err(err).Msg("http: falha ao remover usuário")
		WriteError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"message": "User deleted successfully"})
}
