package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound é retornado quando a chave não existe no store.
var ErrNotFound = errors.New("kv: chave não encontrada")

// Store define o contrato mínimo de chave-valor usado pelos repositórios.
// Valores primários são blobs JSON; índices secundários vivem em sorted
// sets (apenas ids, nunca conteúdo desnormalizado) e a fila de envio em
// uma lista simples.
type Store interface {
	// Get retorna o valor da chave ou ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set grava o valor; ttl > 0 aplica expiração no próprio store.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete remove a chave. Remover chave inexistente não é erro.
	Delete(ctx context.Context, key string) error
	// Scan lista chaves pelo prefixo, em ordem lexicográfica.
	Scan(ctx context.Context, prefix string) ([]string, error)

	// ZAdd insere membro com score em um índice ordenado.
	ZAdd(ctx context.Context, key, member string, score float64) error
	// ZRem remove membros de um índice ordenado.
	ZRem(ctx context.Context, key string, members ...string) error
	// ZRevRange retorna membros do índice em ordem decrescente de score.
	ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error)

	// RPush enfileira valores ao final de uma lista.
	RPush(ctx context.Context, key string, values ...string) error
	// LPop remove e retorna o primeiro item da lista ou ErrNotFound.
	LPop(ctx context.Context, key string) (string, error)

	// Incr incrementa um contador, aplicando ttl na primeira escrita.
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Coleções e índices persistidos, espelhando o layout original.
const (
	CollectionReports        = "reports"
	CollectionUsers          = "users"
	CollectionSessions       = "sessions"
	CollectionPollutionTypes = "pollution_types"
	CollectionSectors        = "sectors"

	IndexReportsByTimestamp = "reports_by_timestamp"
	IndexReportsBySector    = "reports_by_sector"
	IndexReportsByUser      = "reports_by_user"
	IndexUsersByEmail       = "users_by_email"
)

// Key monta chave composta "colecao:parte[:parte...]".
func Key(collection string, parts ...string) string {
	key := collection
	for _, part := range parts {
		key += ":" + part
	}
	return key
}
