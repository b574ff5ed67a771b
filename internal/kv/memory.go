package kv

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore implementa Store em memória, para testes e desenvolvimento.
type MemoryStore struct {
	mu       sync.Mutex
	values   map[string]memoryValue
	zsets    map[string]map[string]float64
	lists    map[string][]string
	counters map[string]int64
}

type memoryValue struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore cria um store vazio.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:   make(map[string]memoryValue),
		zsets:    make(map[string]map[string]float64),
		lists:    make(map[string][]string),
		counters: make(map[string]int64),
	}
}

// Get retorna o valor da chave ou ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !val.expiresAt.IsZero() && time.Now().After(val.expiresAt) {
		delete(s.values, key)
		return nil, ErrNotFound
	}
	out := make([]byte, len(val.data))
	copy(out, val.data)
	return out, nil
}

// Set grava o valor; ttl zero significa sem expiração.
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)

	entry := memoryValue{data: stored}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.values[key] = entry
	return nil
}

// Delete remove a chave.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Scan lista chaves pelo prefixo em ordem lexicográfica.
func (s *MemoryStore) Scan(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var keys []string
	for key, val := range s.values {
		if !val.expiresAt.IsZero() && now.After(val.expiresAt) {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// ZAdd insere membro com score em índice ordenado.
func (s *MemoryStore) ZAdd(ctx context.Context, key, member string, score float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.zsets[key]
	if !ok {
		set = make(map[string]float64)
		s.zsets[key] = set
	}
	set[member] = score
	return nil
}

// ZRem remove membros do índice.
func (s *MemoryStore) ZRem(ctx context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.zsets[key]
	if !ok {
		return nil
	}
	for _, member := range members {
		delete(set, member)
	}
	return nil
}

// ZRevRange retorna membros em ordem decrescente de score, com desempate
// lexicográfico invertido, como o Redis.
func (s *MemoryStore) ZRevRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.zsets[key]
	if !ok {
		return nil, nil
	}

	type entry struct {
		member string
		score  float64
	}
	entries := make([]entry, 0, len(set))
	for member, score := range set {
		entries = append(entries, entry{member: member, score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].member > entries[j].member
	})

	total := int64(len(entries))
	if start < 0 {
		start = total + start
	}
	if stop < 0 {
		stop = total + stop
	}
	if start < 0 {
		start = 0
	}
	if start >= total || stop < start {
		return nil, nil
	}
	if stop >= total {
		stop = total - 1
	}

	members := make([]string, 0, stop-start+1)
	for _, e := range entries[start : stop+1] {
		members = append(members, e.member)
	}
	return members, nil
}

// RPush enfileira valores ao final da lista.
func (s *MemoryStore) RPush(ctx context.Context, key string, values ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lists[key] = append(s.lists[key], values...)
	return nil
}

// LPop remove e retorna o primeiro item da lista ou ErrNotFound.
func (s *MemoryStore) LPop(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[key]
	if len(list) == 0 {
		return "", ErrNotFound
	}
	head := list[0]
	s.lists[key] = list[1:]
	return head, nil
}

// Incr incrementa contador com ttl aplicado na primeira escrita. A
// expiração de contadores não é simulada; testes controlam o reset.
func (s *MemoryStore) Incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[key]++
	return s.counters[key], nil
}
