package sispaa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/lapor/internal/report"
	"github.com/gestaozabele/lapor/internal/taxonomy"
)

const userAgent = "Lapor-Pollution-Reporter/1.0"

// Result é o contrato de retorno do colaborador SISPAA: qualquer
// não-sucesso ou exceção é tratado de forma idêntica pelo chamador.
type Result struct {
	Success     bool
	ReferenceID string
	Error       string
}

// Client envia denúncias ao sistema externo de reclamações (SISPAA).
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	timeout time.Duration
}

// NewClient cria o cliente; apiKey vazia desabilita a integração.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Configured indica se a integração está habilitada.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SubmitReport envia a denúncia. Nunca retorna erro: falhas viram
// Result não-sucesso e são registradas como transição de status.
func (c *Client) SubmitReport(ctx context.Context, rep *report.Report) Result {
	if !c.Configured() {
		log.Info().Msg("sispaa: integração não configurada, envio ignorado")
		return Result{Error: "SISPAA integration not configured"}
	}

	payload := transformReport(rep)
	resp, err := c.call(ctx, http.MethodPost, "/reports", payload)
	if err != nil {
		log.Error().Err(err).Str("report_id", rep.ReportID).Msg("sispaa: erro de rede no envio")
		return Result{Error: "Network error communicating with SISPAA"}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Error().Int("status", resp.StatusCode).Str("report_id", rep.ReportID).Msg("sispaa: envio rejeitado")
		return Result{Error: "SISPAA API error: " + strconv.Itoa(resp.StatusCode)}
	}

	var body struct {
		ReferenceID string `json:"reference_id"`
		ID          string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{Error: "Invalid response from SISPAA"}
	}

	reference := body.ReferenceID
	if reference == "" {
		reference = body.ID
	}
	return Result{Success: true, ReferenceID: reference}
}

// Status consulta o andamento de um envio já aceito.
func (c *Client) Status(ctx context.Context, referenceID string) (string, error) {
	if !c.Configured() {
		return "unknown", fmt.Errorf("sispaa: integração não configurada")
	}

	resp, err := c.call(ctx, http.MethodPost, "/reports/"+referenceID+"/status", map[string]any{})
	if err != nil {
		return "unknown", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "unknown", fmt.Errorf("sispaa: status %d", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "unknown", err
	}
	if body.Status == "" {
		return "unknown", nil
	}
	return body.Status, nil
}

// TestConnection verifica conectividade e mede latência.
func (c *Client) TestConnection(ctx context.Context) (bool, time.Duration, error) {
	if !c.Configured() {
		return false, 0, fmt.Errorf("sispaa: integração não configurada")
	}

	start := time.Now()
	resp, err := c.call(ctx, http.MethodPost, "/health", map[string]any{"test": true})
	latency := time.Since(start)
	if err != nil {
		return false, latency, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, latency, fmt.Errorf("sispaa: status %d", resp.StatusCode)
	}
	return true, latency, nil
}

func (c *Client) call(ctx context.Context, method, endpoint string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, method, c.baseURL+endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", userAgent)

	return c.client.Do(req)
}

// transformReport converte o registro interno para o formato esperado
// pelo SISPAA.
func transformReport(rep *report.Report) map[string]any {
	var coordinates any
	locationDesc := "Unknown Location"
	if rep.Location != nil {
		coordinates = map[string]any{
			"latitude":  rep.Location.Lat,
			"longitude": rep.Location.Lon,
		}
		if rep.Location.City != "" {
			locationDesc = rep.Location.City
		}
	}

	reporterType := "anonymous"
	if rep.UserID != nil && *rep.UserID != "" {
		reporterType = "registered"
	}

	description := fmt.Sprintf("%s pollution reported in sector %d", rep.PollutionType, rep.Sector)
	if rep.Description != nil && *rep.Description != "" {
		description = *rep.Description
	}

	return map[string]any{
		"report_type":   "pollution",
		"incident_type": mapPollutionType(rep.PollutionType),
		"location": map[string]any{
			"coordinates": coordinates,
			"area_code":   strconv.Itoa(rep.Sector),
			"description": locationDesc,
		},
		"reporter": map[string]any{
			"type":               reporterType,
			"ip_address":         rep.IPAddress,
			"device_fingerprint": rep.DeviceID,
		},
		"incident_details": map[string]any{
			"timestamp":   rep.Timestamp,
			"description": description,
			"severity":    "normal",
		},
		"source_system": map[string]any{
			"name":      "Neighbourhood Pollution Reporting System",
			"report_id": rep.ReportID,
		},
	}
}

// mapPollutionType traduz os códigos internos para as categorias SISPAA.
var sispaaCategories = map[string]string{
	"smell":    "odor_pollution",
	"smoke":    "air_pollution_smoke",
	"noise":    "noise_pollution",
	"water":    "water_pollution",
	"air":      "air_pollution",
	"waste":    "waste_management",
	"chemical": "chemical_pollution",
	"other":    "environmental_other",
}

func mapPollutionType(pollutionType string) string {
	if category, ok := sispaaCategories[pollutionType]; ok {
		return category
	}
	// registros gravados com slug ou nome completo resolvem para o
	// código curto antes da tradução
	if code := taxonomy.LegacyTypeCode(pollutionType); code != "" {
		if category, ok := sispaaCategories[code]; ok {
			return category
		}
	}
	return "environmental_other"
}
