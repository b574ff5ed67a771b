package device

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"
)

// Tamanhos fixos dos tokens: o hash do servidor é encurtado para
// legibilidade e o combinado limitado para caber nos registros.
const (
	serverFingerprintLength   = 16
	combinedFingerprintLength = 32
)

// serverOnlyPrefix marca fingerprints sem contribuição do cliente, para
// que a detecção de duplicidade distinga os dois casos.
const serverOnlyPrefix = "server_"

// Fingerprint deriva um token estável do conjunto fixo de headers mais
// o instante atual. Sinal consultivo de duplicidade, nunca segurança.
func Fingerprint(header http.Header) string {
	data := map[string]any{
		"userAgent":      header.Get("User-Agent"),
		"acceptLanguage": header.Get("Accept-Language"),
		"acceptEncoding": header.Get("Accept-Encoding"),
		"connection":     header.Get("Connection"),
		"dnt":            header.Get("DNT"),
		"sec_fetch_site": header.Get("Sec-Fetch-Site"),
		"sec_fetch_mode": header.Get("Sec-Fetch-Mode"),
		"sec_fetch_dest": header.Get("Sec-Fetch-Dest"),
		"timestamp":      time.Now().UnixMilli(),
	}

	raw, err := json.Marshal(data)
	if err != nil {
		raw = []byte(header.Get("User-Agent"))
	}
	sum := sha256.Sum256(raw)
	encoded := base64.StdEncoding.EncodeToString(sum[:])
	return encoded[:serverFingerprintLength]
}

// Combine junta os fingerprints do servidor e do cliente. Sem valor do
// cliente, prefixa o do servidor com o marcador server_.
func Combine(serverFingerprint, clientFingerprint string) string {
	if clientFingerprint == "" {
		return serverOnlyPrefix + serverFingerprint
	}
	combined := serverFingerprint + "_" + clientFingerprint
	if len(combined) > combinedFingerprintLength {
		combined = combined[:combinedFingerprintLength]
	}
	return combined
}
