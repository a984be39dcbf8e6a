package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/internal/projects/domain"
	"github.com/syl2042/contentmaestro/internal/state"
)

// Store is the query layer ProjectState delegates to.
type Store interface {
	ListRecent(ctx context.Context, userID string) ([]domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, userID string, data domain.CreateProjectData) (*domain.Project, error)
	Update(ctx context.Context, id string, data domain.UpdateProjectData) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

var ErrUserRequired = errors.New("Utilisateur non connecté")

// ProjectState is the cached, most-recent-first project list of one user.
type ProjectState struct {
	userID string
	store  Store
	coll   *state.Collection[domain.Project]
}

func NewProjectState(userID string, store Store, log zerolog.Logger) *ProjectState {
	coll := state.NewCollection(
		state.Names{Singular: "project", Plural: "projects"},
		store.ListRecent,
		func(p domain.Project) string { return p.ID },
		log.With().Str("component", "projects.state").Str("user_id", userID).Logger(),
	)
	return &ProjectState{userID: userID, store: store, coll: coll}
}

// NewRegistry builds one ProjectState per user on demand.
func NewRegistry(store Store, log zerolog.Logger) *state.Registry[*ProjectState] {
	return state.NewRegistry(func(userID string) *ProjectState {
		return NewProjectState(userID, store, log)
	})
}

func (s *ProjectState) UserID() string {
	return s.userID
}

func (s *ProjectState) Load(ctx context.Context) error {
	return s.coll.SetUser(ctx, s.userID)
}

func (s *ProjectState) Refresh(ctx context.Context) error {
	if err := s.coll.SetUser(ctx, s.userID); err != nil {
		return err
	}
	return s.coll.Refresh(ctx)
}

func (s *ProjectState) Snapshot() state.Snapshot[domain.Project] {
	return s.coll.Snapshot()
}

// Recent returns at most n cached projects; n <= 0 returns all of them.
func (s *ProjectState) Recent(n int) []domain.Project {
	items := s.coll.Snapshot().Items
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// Get serves from the cache and falls back to the store. Projects of other
// users are reported as not found.
func (s *ProjectState) Get(ctx context.Context, id string) (*domain.Project, error) {
	if p, ok := s.coll.Find(id); ok {
		return &p, nil
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != s.userID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *ProjectState) CreateProject(ctx context.Context, data domain.CreateProjectData) (*domain.Project, error) {
	if s.userID == "" {
		return nil, ErrUserRequired
	}

	created, err := s.coll.Create(ctx, func(ctx context.Context) (domain.Project, error) {
		out, err := s.store.Create(ctx, s.userID, data)
		if err != nil {
			return domain.Project{}, err
		}
		return *out, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ProjectState) UpdateProject(ctx context.Context, id string, data domain.UpdateProjectData) (*domain.Project, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.coll.Update(ctx, id, func(ctx context.Context) (domain.Project, error) {
		out, err := s.store.Update(ctx, id, data)
		if err != nil {
			return domain.Project{}, err
		}
		return *out, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProjectState) DeleteProject(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.coll.Delete(ctx, id, func(ctx context.Context) error {
		return s.store.Delete(ctx, id)
	})
}
