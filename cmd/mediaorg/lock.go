package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mediaorganizer/internal/config"
)

// treeLockPath names the lock file for root. Paths hash to stable names so
// any spelling of the same absolute directory maps to one lock.
func treeLockPath(cfg *config.Config, root string) string {
	name := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+absRoot(root))).String()
	return filepath.Join(cfg.LockDir(), name+".lock")
}

func absRoot(root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		return filepath.Clean(root)
	}
	return abs
}

// lockTree takes the batch lock for root without blocking: exclusive on root
// and shared on every ancestor. Batches on nested trees therefore exclude
// each other while sibling trees can run side by side. The returned func
// releases every lock taken.
func lockTree(cfg *config.Config, root string) (func(), error) {
	if err := os.MkdirAll(cfg.LockDir(), 0o755); err != nil {
		return nil, fmt.Errorf("ensure lock directory: %w", err)
	}

	var held []*flock.Flock
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			_ = held[i].Unlock()
		}
	}

	dir := absRoot(root)
	exclusive := true
	for {
		lock := flock.New(treeLockPath(cfg, dir))
		var (
			ok  bool
			err error
		)
		if exclusive {
			ok, err = lock.TryLock()
		} else {
			ok, err = lock.TryRLock()
		}
		if err != nil {
			release()
			return nil, fmt.Errorf("acquire lock for %s: %w", dir, err)
		}
		if !ok {
			release()
			return nil, fmt.Errorf("another mediaorg batch is already running on %s or a directory containing it", root)
		}
		held = append(held, lock)

		parent := filepath.Dir(dir)
		if parent == dir {
			return release, nil
		}
		dir, exclusive = parent, false
	}
}
