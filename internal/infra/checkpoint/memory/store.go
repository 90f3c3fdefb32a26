// Package memory provides an in-process checkpoint transport.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"adaptercore/internal/checkpoint/core"
)

type entry struct {
	blob []byte
	info core.Info
}

// Store keeps checkpoints in a map guarded by a RWMutex. Blobs are copied on
// the way in and out so callers never share backing arrays with the store.
type Store struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time
}

// New returns an empty memory transport.
func New() *Store {
	return &Store{data: make(map[string]entry), now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) Driver() core.Driver { return core.DriverMemory }

func (s *Store) Put(_ context.Context, key string, blob []byte) (core.Info, error) {
	k, err := core.CleanKey(key)
	if err != nil {
		return core.Info{}, err
	}
	info := core.Info{Key: k, Size: int64(len(blob)), ETag: core.ETag(blob), UpdatedAt: s.now()}
	s.mu.Lock()
	s.data[k] = entry{blob: clone(blob), info: info}
	s.mu.Unlock()
	return info, nil
}

func (s *Store) Get(_ context.Context, key string) (core.Info, []byte, error) {
	k, err := core.CleanKey(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	s.mu.RLock()
	e, ok := s.data[k]
	s.mu.RUnlock()
	if !ok {
		return core.Info{}, nil, fmt.Errorf("get %s: %w", k, core.ErrNotFound)
	}
	return e.info, clone(e.blob), nil
}

func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	k, err := core.CleanKey(key)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[k]; !ok {
		return false, nil
	}
	delete(s.data, k)
	return true, nil
}

func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	s.mu.RLock()
	infos := make([]core.Info, 0, len(s.data))
	for k, e := range s.data {
		if prefix == "" || strings.HasPrefix(k, prefix) {
			infos = append(infos, e.info)
		}
	}
	s.mu.RUnlock()
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
