package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"
	"github.com/rs/zerolog/log"
)

// developmentLocation é devolvida para endereços privados/locais sem
// nenhuma chamada de rede (coordenadas de Johor Bahru).
var developmentLocation = Location{City: "Local Development", Lat: 1.4927, Lon: 103.7414}

// ClientIP resolve o IP do remetente: primeira entrada de
// X-Forwarded-For, depois X-Real-IP, senão loopback. O valor é confiado
// como veio (simplificação intencional do produto).
func ClientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}
	return "127.0.0.1"
}

// IsPrivateIP indica endereços privados, loopback e link-local, que
// curto-circuitam a resolução.
func IsPrivateIP(ip string) bool {
	if ip == "localhost" {
		return true
	}
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() ||
		parsed.IsPrivate() ||
		parsed.IsLinkLocalUnicast() ||
		parsed.IsLinkLocalMulticast()
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Resolver mapeia IPs para localização aproximada: base MaxMind local
// quando configurada, depois ipapi.co, depois ip-api.com.
type Resolver struct {
	client httpDoer
	mmdb   *geoip2.Reader
}

// NewResolver cria o resolvedor; dbPath vazio desabilita a base local.
func NewResolver(dbPath string) (*Resolver, error) {
	r := &Resolver{client: &http.Client{Timeout: 10 * time.Second}}
	if dbPath != "" {
		reader, err := geoip2.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("geoip: %w", err)
		}
		r.mmdb = reader
	}
	return r, nil
}

// Close libera a base local, se aberta.
func (r *Resolver) Close() {
	if r.mmdb != nil {
		_ = r.mmdb.Close()
	}
}

// Resolve retorna a localização aproximada ou nil. Enriquecimento é
// best-effort: nenhuma falha aqui deve bloquear uma denúncia.
func (r *Resolver) Resolve(ctx context.Context, ipAddress string) *Location {
	if IsPrivateIP(ipAddress) {
		loc := developmentLocation
		return &loc
	}

	if loc := r.resolveLocal(ipAddress); loc != nil {
		return loc
	}

	if loc, err := r.resolvePrimary(ctx, ipAddress); err == nil {
		return loc
	} else {
		log.Warn().Err(err).Str("ip", ipAddress).Msg("geo: provedor primário falhou, tentando backup")
	}

	loc, err := r.resolveBackup(ctx, ipAddress)
	if err != nil {
		log.Warn().Err(err).Str("ip", ipAddress).Msg("geo: provedor de backup falhou")
		return nil
	}
	return loc
}

func (r *Resolver) resolveLocal(ipAddress string) *Location {
	if r.mmdb == nil {
		return nil
	}
	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return nil
	}
	record, err := r.mmdb.City(ip)
	if err != nil {
		return nil
	}
	city := record.City.Names["en"]
	if city == "" {
		return nil
	}
	return &Location{
		City: city,
		Lat:  record.Location.Latitude,
		Lon:  record.Location.Longitude,
	}
}

func (r *Resolver) resolvePrimary(ctx context.Context, ipAddress string) (*Location, error) {
	var payload struct {
		City      string  `json:"city"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Error     bool    `json:"error"`
		Reason    string  `json:"reason"`
	}
	url := fmt.Sprintf("https://ipapi.co/%s/json/", ipAddress)
	if err := r.fetch(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Error {
		return nil, fmt.Errorf("ipapi.co: %s", payload.Reason)
	}

	loc := &Location{City: payload.City, Lat: payload.Latitude, Lon: payload.Longitude}
	if loc.City == "" {
		loc.City = "Unknown"
	}
	return loc, nil
}

func (r *Resolver) resolveBackup(ctx context.Context, ipAddress string) (*Location, error) {
	var payload struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		City    string  `json:"city"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	url := fmt.Sprintf("http://ip-api.com/json/%s", ipAddress)
	if err := r.fetch(ctx, url, &payload); err != nil {
		return nil, err
	}
	if payload.Status == "fail" {
		return nil, fmt.Errorf("ip-api.com: %s", payload.Message)
	}

	loc := &Location{City: payload.City, Lat: payload.Lat, Lon: payload.Lon}
	if loc.City == "" {
		loc.City = "Unknown"
	}
	return loc, nil
}

func (r *Resolver) fetch(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
