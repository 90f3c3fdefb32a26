package checkpoint

import (
	"context"
	"fmt"
)

// Saver produces a snapshot blob. Both adapter kinds satisfy it.
type Saver interface {
	Save() ([]byte, error)
}

// Save snapshots s and stores the blob under key.
func Save(ctx context.Context, t Transport, key string, s Saver) (Info, error) {
	blob, err := s.Save()
	if err != nil {
		return Info{}, fmt.Errorf("snapshot %s: %w", key, err)
	}
	info, err := t.Put(ctx, key, blob)
	if err != nil {
		return Info{}, fmt.Errorf("store %s via %s: %w", key, t.Driver(), err)
	}
	return info, nil
}

// Load fetches the blob stored under key and hands it to restore, typically
// a closure over List.Restore or Expandable.Restore with its resolvers.
func Load(ctx context.Context, t Transport, key string, restore func([]byte) error) (Info, error) {
	info, blob, err := t.Get(ctx, key)
	if err != nil {
		return Info{}, fmt.Errorf("fetch %s via %s: %w", key, t.Driver(), err)
	}
	if err := restore(blob); err != nil {
		return Info{}, fmt.Errorf("restore %s: %w", key, err)
	}
	return info, nil
}
