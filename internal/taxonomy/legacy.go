package taxonomy

import (
	"fmt"
	"regexp"
	"strings"
)

// Mapeamento versionado de códigos curtos legados para os nomes atuais.
// Consultado apenas na borda de leitura/exibição, nunca re-derivado.
var legacyTypeNames = map[string]string{
	"smell":    "Bad Smell / Odor",
	"smoke":    "Smoke",
	"noise":    "Noise Pollution",
	"water":    "Water Pollution",
	"air":      "Air Pollution",
	"waste":    "Waste / Litter",
	"chemical": "Chemical Pollution",
	"other":    "Other",
}

var slugStrip = regexp.MustCompile(`[^a-z0-9_]`)

// Slug normaliza um nome de taxonomia para o código usado nos registros
// ("Air Pollution" -> "air_pollution").
func Slug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "_")
	return slugStrip.ReplaceAllString(slug, "")
}

// LegacyTypeName resolve um código curto legado para o nome atual;
// retorna vazio quando o código não é legado.
func LegacyTypeName(code string) string {
	return legacyTypeNames[code]
}

// LegacyTypeCode resolve um valor de tipo gravado em denúncias (código
// curto, slug ou nome completo) para o código curto legado; retorna
// vazio quando não há correspondência.
func LegacyTypeCode(value string) string {
	if _, ok := legacyTypeNames[value]; ok {
		return value
	}
	for code, name := range legacyTypeNames {
		if value == name || value == Slug(name) {
			return code
		}
	}
	return ""
}

// DisplayTypeName resolve o nome de exibição de um código de tipo
// gravado em denúncias: primeiro os tipos ativos, depois o mapeamento
// legado, por fim o próprio código.
func DisplayTypeName(code string, active []PollutionType) string {
	for _, t := range active {
		if Slug(t.Name) == code || t.Name == code {
			return t.Name
		}
	}
	if name := LegacyTypeName(code); name != "" {
		return name
	}
	return code
}

// DisplaySectorName resolve o nome de exibição de um índice de setor
// legado (1-based) contra os setores ativos.
func DisplaySectorName(index int, active []Sector) string {
	if index >= 1 && index <= len(active) {
		return active[index-1].Name
	}
	return fmt.Sprintf("Sector %d", index)
}
