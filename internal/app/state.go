package app

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"review_insights/internal/adapters/observability"
	"review_insights/internal/domain"
)

// Loader produces a full set of datasets. IngestionService satisfies it.
type Loader interface {
	LoadAll(ctx context.Context) ([]domain.Dataset, error)
}

// State owns the live snapshot. Readers grab the pointer once per request; a
// reload builds a complete replacement before swapping it in.
type State struct {
	loader Loader
	mu     sync.Mutex // serializes reloads
	snap   atomic.Pointer[domain.Snapshot]
	now    func() time.Time
}

func NewState(l Loader) *State {
	return &State{loader: l, now: time.Now}
}

// NewStaticState installs a fixed snapshot with no loader behind it.
func NewStaticState(datasets []domain.Dataset) *State {
	s := &State{now: time.Now}
	s.install(datasets)
	return s
}

// Current returns the installed snapshot or nil before the first load.
func (s *State) Current() *domain.Snapshot {
	return s.snap.Load()
}

// Load is the initial load. It is the same operation as Reload.
func (s *State) Load(ctx context.Context) (*domain.Snapshot, error) {
	return s.Reload(ctx)
}

// Reload rebuilds every dataset and swaps the snapshot. On failure the
// previous snapshot stays installed.
func (s *State) Reload(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loader == nil {
		return s.Current(), nil
	}
	datasets, err := s.loader.LoadAll(ctx)
	observability.ObserveReload(err)
	if err != nil {
		log.Error().Err(err).Msg("snapshot reload failed")
		return nil, err
	}
	snap := s.install(datasets)
	log.Info().Str("snapshot_id", snap.ID).Strs("datasets", snap.Names()).Msg("snapshot installed")
	return snap, nil
}

func (s *State) install(datasets []domain.Dataset) *domain.Snapshot {
	snap := &domain.Snapshot{ID: uuid.NewString(), LoadedAt: s.now().UTC(), Datasets: datasets}
	counts := make(map[string]int, len(datasets))
	for _, d := range datasets {
		counts[d.Name] = len(d.Reviews)
	}
	observability.ObserveSnapshot(counts)
	s.snap.Store(snap)
	return snap
}
