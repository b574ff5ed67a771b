package util

import "time"

// ISOFormat espelha o Date.toISOString usado nos registros legados:
// UTC com precisão de milissegundos.
const ISOFormat = "2006-01-02T15:04:05.000Z"

// NowISO retorna o instante atual no formato canônico dos timestamps.
func NowISO() string {
	return time.Now().UTC().Format(ISOFormat)
}
