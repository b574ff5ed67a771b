package http

import (
	"encoding/json"
	"net/http"
)

// WriteSuccess escreve o envelope de sucesso: {"success":true} mais os
// campos do payload no nível raiz.
func WriteSuccess(w http.ResponseWriter, status int, payload map[string]any) {
	body := make(map[string]any, len(payload)+1)
	body["success"] = true
	for k, v := range payload {
		body[k] = v
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError escreve o envelope de erro normalizado.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// decodeJSON decodifica o corpo em dst rejeitando campos desconhecidos
// e lixo após o documento. Em falha responde 400 e retorna false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if dec.More() {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
