package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryEntry struct {
	raw     []byte
	expires time.Time
}

// MemoryStore keeps sessions in process. Used when no Redis address is configured and in tests.
type MemoryStore struct {
	mu  sync.Mutex
	ttl time.Duration
	now func() time.Time
	m   map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, m: make(map[string]memoryEntry)}
}

// Load returns a copy of the session and renews its expiry.
func (s *MemoryStore) Load(_ context.Context, id string) (*Data, error) {
	s.mu.Lock()
	now := s.now()
	e, ok := s.m[id]
	switch {
	case ok && now.After(e.expires):
		delete(s.m, id)
		ok = false
	case ok:
		e.expires = now.Add(s.ttl)
		s.m[id] = e
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}

	d := newData()
	if err := json.Unmarshal(e.raw, d); err != nil {
		return nil, err
	}
	if d.Cart == nil {
		d.Cart = newData().Cart
	}
	return d, nil
}

// Save stores a serialized copy, so later mutations of data are not visible until saved again.
func (s *MemoryStore) Save(_ context.Context, id string, data *Data) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.m[id] = memoryEntry{raw: raw, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
	return nil
}
