// Package store loads the project data file once and answers lookups
// against it.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/apandji/pandjico4/internal/logger"
	"github.com/apandji/pandjico4/internal/model"
)

// DefaultDataPath is where the data file lives relative to the site root.
const DefaultDataPath = "data/projects.json"

// State is the store's load lifecycle.
type State int

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Store is the ProjectStore. The first successful Load is cached for the
// lifetime of the Store; concurrent callers share one in-flight fetch.
type Store struct {
	name     string
	primary  Transport
	fallback Transport
	logger   *slog.Logger

	group singleflight.Group

	mu    sync.RWMutex
	state State
	coll  *model.Collection
}

// Option configures a Store.
type Option func(*Store)

// WithFallback sets the transport tried when the primary one fails.
func WithFallback(t Transport) Option {
	return func(s *Store) { s.fallback = t }
}

// WithLogger sets the store logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithDataPath overrides DefaultDataPath.
func WithDataPath(name string) Option {
	return func(s *Store) { s.name = name }
}

func New(primary Transport, opts ...Option) *Store {
	s := &Store{name: DefaultDataPath, primary: primary}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logger.OrDiscard(s.logger).With(logger.Scope("store"))
	return s
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Load returns the project collection, fetching it on first use. Failures
// are not cached: the store drops back to Uninitialized and the next Load
// tries again. The returned error always wraps ErrDataUnavailable.
func (s *Store) Load(ctx context.Context) (*model.Collection, error) {
	if coll := s.Collection(); coll != nil {
		return coll, nil
	}

	v, err, _ := s.group.Do(s.name, func() (any, error) {
		if coll := s.Collection(); coll != nil {
			return coll, nil
		}
		s.setState(Loading)

		coll, err := s.fetch(ctx)
		if err != nil {
			s.setState(Uninitialized)
			return nil, err
		}

		s.mu.Lock()
		s.coll = coll
		s.state = Ready
		s.mu.Unlock()
		return coll, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Collection), nil
}

func (s *Store) fetch(ctx context.Context) (*model.Collection, error) {
	coll, primaryErr := s.attempt(ctx, s.primary)
	if primaryErr == nil {
		return coll, nil
	}
	if s.fallback == nil {
		s.logger.Error("project data unavailable", logger.Error(primaryErr))
		return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, primaryErr)
	}

	s.logger.Warn("primary transport failed, trying fallback", logger.Error(primaryErr))
	coll, fallbackErr := s.attempt(ctx, s.fallback)
	if fallbackErr == nil {
		return coll, nil
	}
	s.logger.Error("fallback transport also failed", logger.Error(fallbackErr))
	return nil, fmt.Errorf("%w: %w", ErrDataUnavailable, errors.Join(primaryErr, fallbackErr))
}

func (s *Store) attempt(ctx context.Context, t Transport) (*model.Collection, error) {
	if t == nil {
		return nil, errors.New("no transport configured")
	}
	data, err := t.Fetch(ctx, s.name)
	if err != nil {
		return nil, err
	}
	coll, err := Decode(data)
	if err != nil {
		return nil, err
	}
	for _, issue := range coll.Issues {
		s.logger.Warn("project data issue", logger.Error(issue))
	}
	s.logger.Info("project data loaded", slog.Int("projects", coll.Len()), slog.Int("issues", len(coll.Issues)))
	return coll, nil
}

func (s *Store) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Collection returns the loaded collection, or nil before a successful Load.
func (s *Store) Collection() *model.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coll
}

func (s *Store) GetBySlug(slug string) (model.Project, bool) {
	return s.Collection().BySlug(slug)
}

// GetFeatured resolves allow against the loaded collection. An empty allow
// falls back to the data file's own featured list.
func (s *Store) GetFeatured(allow []string) []model.Project {
	coll := s.Collection()
	if len(allow) == 0 {
		allow = coll.FeaturedSlugs()
	}
	return coll.Featured(allow)
}

func (s *Store) GetByTags(tags []string) []model.Project {
	return s.Collection().ByTags(tags)
}
