package app

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"review_insights/internal/domain"
)

const DefaultDebounce = 2 * time.Second

// Reloader is satisfied by *State.
type Reloader interface {
	Reload(ctx context.Context) (*domain.Snapshot, error)
}

// Watcher reloads the snapshot after source files in a directory change.
// Bursts of events within the debounce window cause a single reload.
type Watcher struct {
	dir      string
	target   Reloader
	debounce time.Duration
}

func NewWatcher(dir string, target Reloader, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{dir: dir, target: target, debounce: debounce}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	if err := fw.Add(w.dir); err != nil {
		return err
	}
	log.Info().Str("dir", w.dir).Dur("debounce", w.debounce).Msg("watching data dir")

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			log.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("source changed")
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watcher error")
		case <-timer.C:
			if _, err := w.target.Reload(ctx); err != nil {
				log.Warn().Err(err).Msg("reload after change failed; keeping previous snapshot")
			}
		}
	}
}

// relevant reports whether ev touches a CSV source (plain or xz).
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	name := strings.ToLower(filepath.Base(ev.Name))
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".csv.xz")
}
