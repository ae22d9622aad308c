package config

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/devmarvs/csp"
)

// ReloadingResolver wraps a resolver behind an atomic pointer so a
// watcher can swap in a new one while request handlers keep resolving.
type ReloadingResolver struct {
	current atomic.Pointer[csp.Resolver]
}

// NewReloadingResolver wraps an initial resolver.
func NewReloadingResolver(resolver *csp.Resolver) *ReloadingResolver {
	r := &ReloadingResolver{}
	r.current.Store(resolver)
	return r
}

// Swap replaces the active resolver.
func (r *ReloadingResolver) Swap(next *csp.Resolver) {
	r.current.Store(next)
}

// Resolver returns the active resolver.
func (r *ReloadingResolver) Resolver() *csp.Resolver {
	return r.current.Load()
}

// Header resolves against the active resolver, satisfying the
// middleware resolver contract.
func (r *ReloadingResolver) Header(path string) (string, bool, error) {
	return r.current.Load().Header(path)
}

// debounceDefault coalesces editor write bursts into one reload.
const debounceDefault = 200 * time.Millisecond

// Watcher reloads a policy file into a ReloadingResolver when it
// changes. A reload that fails to parse keeps the last good resolver.
type Watcher struct {
	path     string
	target   *ReloadingResolver
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher for the policy file.
func NewWatcher(path string, target *ReloadingResolver, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		path:     path,
		target:   target,
		logger:   logger,
		debounce: debounceDefault,
	}
}

// Run watches the file and reloads on writes. Blocks until ctx is
// cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(w.path); err != nil {
		return fmt.Errorf("config: watch %s: %w", w.path, err)
	}

	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(w.debounce, w.reload)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("policy watch error", "path", w.path, "error", err)
		}
	}
}

func (w *Watcher) reload() {
	resolver, err := Load(w.path)
	if err != nil {
		w.logger.Error("policy reload failed, keeping previous policy", "path", w.path, "error", err)
		return
	}
	w.target.Swap(resolver)
	w.logger.Info("policy reloaded", "path", w.path)
}
