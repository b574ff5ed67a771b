package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/lapor/internal/auth"
	"github.com/gestaozabele/lapor/internal/device"
	"github.com/gestaozabele/lapor/internal/geo"
	"github.com/gestaozabele/lapor/internal/report"
	"github.com/gestaozabele/lapor/internal/service"
)

type submitReportRequest struct {
	PollutionType  string `json:"pollution_type"`
	Sector         any    `json:"sector"`
	Description    string `json:"description"`
	ClientDeviceID string `json:"client_device_id"`
}

// sectorString aceita o setor como número ou string JSON, como o
// formulário envia historicamente.
func sectorString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// SubmitReport recebe a denúncia pública, anônima ou autenticada.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var body submitReportRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	rep, err := h.reports.Submit(r.Context(), service.SubmitInput{
		PollutionType:  body.PollutionType,
		Sector:         sectorString(body.Sector),
		Description:    body.Description,
		ClientDeviceID: body.ClientDeviceID,
	}, service.SubmitContext{
		IPAddress:         geo.ClientIP(r),
		ServerFingerprint: device.Fingerprint(r.Header),
		SessionID:         auth.SessionFromRequest(r),
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			WriteError(w, http.StatusBadRequest, verr.Reason)
			return
		}
		log.Error().Err(err).Msg("http: falha ao registrar denúncia")
		WriteError(w, http.StatusInternalServerError, "Failed to submit report")
		return
	}

	WriteSuccess(w, http.StatusCreated, map[string]any{
		"report_id": rep.ReportID,
		"message":   "Report submitted successfully",
	})
}

// ListReports é a listagem administrativa com filtros por setor ou
// usuário e paginação.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := service.ListFilter{
		Limit:  queryInt(query.Get("limit"), 100),
		Offset: queryInt(query.Get("offset"), 0),
		UserID: query.Get("user_id"),
	}
	if raw := query.Get("sector"); raw != "" {
		sector, err := strconv.Atoi(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid sector filter")
			return
		}
		filter.Sector = &sector
	}

	reports, err := h.reports.List(r.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao listar denúncias")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch reports")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{
		"reports": reports,
		"count":   len(reports),
	})
}

// UpdateReportStatus aplica transição administrativa de status.
func (h *Handler) UpdateReportStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	updated, err := h.reports.UpdateStatus(r.Context(), chi.URLParam(r, "id"), body.Status)
	if err != nil {
		switch {
		case errors.Is(err, report.ErrInvalidStatus):
			WriteError(w, http.StatusBadRequest, "Valid status is required (pending, submitted, failed, resolved)")
		case errors.Is(err, report.ErrNotFound):
			WriteError(w, http.StatusNotFound, "Report not found")
		default:
			log.Error().Err(err).Msg("http: falha ao atualizar denúncia")
			WriteError(w, http.StatusInternalServerError, "Failed to update report")
		}
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"report": updated})
}

// DeleteReport remove uma denúncia definitivamente.
func (h *Handler) DeleteReport(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.reports.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao remover denúncia")
		WriteError(w, http.StatusInternalServerError, "Failed to delete report")
		return
	}
	if !deleted {
		WriteError(w, http.StatusNotFound, "Report not found")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"message": "Report deleted successfully"})
}

// FormData fornece tipos e setores ativos para o formulário público.
func (h *Handler) FormData(w http.ResponseWriter, r *http.Request) {
	types, err := h.types.GetActive(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao carregar tipos")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	sectors, err := h.sectors.GetActive(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao carregar setores")
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"pollution_types": types,
			"sectors":         sectors,
		},
	})
}

// Dashboard agrega as distribuições do painel público. Ano, mês e dia
// ausentes assumem a data corrente.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	query := r.URL.Query()

	year := queryInt(query.Get("year"), now.Year())
	month := queryInt(query.Get("month"), int(now.Month()))
	day := queryInt(query.Get("day"), now.Day())

	data, err := h.reports.Dashboard(r.Context(), year, month, day)
	if err != nil {
		log.Error().Err(err).Msg("http: falha ao montar painel")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch dashboard data")
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]any{"data": data})
}

func queryInt(raw string, def int) int {
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return val
}
