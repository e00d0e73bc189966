package ledger

import (
	"context"
	"sync"

	"supercollab/model"
)

// Store persists accounts. Apply must write every change or none.
type Store interface {
	Load(ctx context.Context, key model.Pubkey) (Account, bool, error)
	Apply(ctx context.Context, changes map[model.Pubkey]Account) error
}

type MemoryStore struct {
	mu sync.RWMutex
	m  map[model.Pubkey]Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m: make(map[model.Pubkey]Account),
	}
}

func (s *MemoryStore) Load(ctx context.Context, key model.Pubkey) (Account, bool, error) {
	_ = ctx
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.m[key]
	if !ok {
		return Account{}, false, nil
	}
	return a.Clone(), true, nil
}

func (s *MemoryStore) Apply(ctx context.Context, changes map[model.Pubkey]Account) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, a := range changes {
		s.m[k] = a.Clone()
	}
	return nil
}
