// internal/pkg/lock/lock.go
package lock

import (
	"context"
	"sort"
)

// Releaser frees a held lock
type Releaser func()

// Locker serializes work on a named key
type Locker interface {
	// Lock blocks until key is held or ctx is done
	Lock(ctx context.Context, key string) (Releaser, error)
}

// LockAll acquires every key in sorted order so that two callers locking
// overlapping sets cannot deadlock. Duplicate keys are locked once.
func LockAll(ctx context.Context, l Locker, keys []string) (Releaser, error) {
	sorted := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)

	held := make([]Releaser, 0, len(sorted))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i]()
		}
	}

	for _, k := range sorted {
		release, err := l.Lock(ctx, k)
		if err != nil {
			releaseAll()
			return nil, err
		}
		held = append(held, release)
	}

	return releaseAll, nil
}
