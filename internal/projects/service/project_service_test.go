package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syl2042/contentmaestro/internal/projects/domain"
)

type fakeStore struct {
	mu      sync.Mutex
	rows    []domain.Project
	calls   int
	listErr error
	failErr error
}

func (s *fakeStore) ListRecent(_ context.Context, userID string) ([]domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Project
	for _, p := range s.rows {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	for _, p := range s.rows {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) Create(_ context.Context, userID string, data domain.CreateProjectData) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failErr != nil {
		return nil, s.failErr
	}
	p := domain.Project{
		ID:                "srv-" + data.Titre,
		UserID:            userID,
		Titre:             data.Titre,
		Statut:            data.Statut,
		SousTypesContenus: data.TypesContenus,
	}
	p.Derive()
	s.rows = append([]domain.Project{p}, s.rows...)
	return &p, nil
}

func (s *fakeStore) Update(_ context.Context, id string, data domain.UpdateProjectData) (*domain.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failErr != nil {
		return nil, s.failErr
	}
	for i, p := range s.rows {
		if p.ID == id {
			if data.Titre != nil {
				p.Titre = *data.Titre
			}
			if data.TypesContenus != nil {
				p.SousTypesContenus = data.TypesContenus
			}
			p.Derive()
			s.rows[i] = p
			return &p, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *fakeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.failErr != nil {
		return s.failErr
	}
	for i, p := range s.rows {
		if p.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func project(id, user, title string) domain.Project {
	p := domain.Project{ID: id, UserID: user, Titre: title, Statut: domain.StatusInProgress}
	p.Derive()
	return p
}

func TestProjectState_LoadAndRecent(t *testing.T) {
	store := &fakeStore{rows: []domain.Project{
		project("a", "u1", "A"), project("b", "u1", "B"), project("c", "u1", "C"), project("x", "u2", "X"),
	}}
	s := NewProjectState("u1", store, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))

	assert.Len(t, s.Recent(0), 3)
	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "a", recent[0].ID)
}

func TestProjectState_EmptyUserDoesNotFetch(t *testing.T) {
	store := &fakeStore{}
	s := NewProjectState("", store, zerolog.Nop())

	require.NoError(t, s.Load(context.Background()))
	snap := s.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Items)
	assert.Zero(t, store.calls)

	_, err := s.CreateProject(context.Background(), domain.CreateProjectData{Titre: "T"})
	assert.EqualError(t, err, "Utilisateur non connecté")
}

func TestProjectState_FailedRefreshKeepsList(t *testing.T) {
	store := &fakeStore{rows: []domain.Project{project("a", "u1", "A")}}
	s := NewProjectState("u1", store, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))

	store.listErr = errors.New("timeout")
	assert.EqualError(t, s.Refresh(context.Background()), "timeout")
	snap := s.Snapshot()
	assert.Len(t, snap.Items, 1)
	assert.EqualError(t, snap.Err, "timeout")
}

func TestProjectState_Mutations(t *testing.T) {
	store := &fakeStore{rows: []domain.Project{project("a", "u1", "A")}}
	s := NewProjectState("u1", store, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))

	created, err := s.CreateProject(context.Background(), domain.CreateProjectData{
		Titre:  "New",
		Statut: domain.StatusInProgress,
		TypesContenus: []domain.ContentTypeSelection{
			{TypeID: "blog", SubtypeIDs: []string{"x", "y"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created.ContentCount)
	assert.Equal(t, "srv-New", s.Snapshot().Items[0].ID)

	title := "A2"
	_, err = s.UpdateProject(context.Background(), "a", domain.UpdateProjectData{Titre: &title})
	require.NoError(t, err)
	assert.Equal(t, "A2", s.Snapshot().Items[1].Titre)

	require.NoError(t, s.DeleteProject(context.Background(), "srv-New"))
	items := s.Snapshot().Items
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].ID)

	assert.ErrorIs(t, s.DeleteProject(context.Background(), "ghost"), domain.ErrNotFound)
	assert.Len(t, s.Snapshot().Items, 1)
}

func TestProjectState_ForeignProject(t *testing.T) {
	store := &fakeStore{rows: []domain.Project{project("x", "u2", "X")}}
	s := NewProjectState("u1", store, zerolog.Nop())

	_, err := s.Get(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFormController_Create(t *testing.T) {
	store := &fakeStore{}
	f := NewFormController(NewProjectState("u1", store, zerolog.Nop()))

	st, err := f.SubmitCreate(context.Background(), domain.CreateProjectData{Titre: "T", Statut: domain.StatusInProgress})
	require.NoError(t, err)
	assert.False(t, st.Open)
	assert.Equal(t, "Créer un nouveau projet", st.Title)
	require.NotNil(t, st.Project)

	store.failErr = errors.New("titre too long")
	st, err = f.SubmitCreate(context.Background(), domain.CreateProjectData{Titre: "T2"})
	assert.Error(t, err)
	assert.True(t, st.Open)
	assert.Equal(t, "titre too long", st.Error)
	assert.Equal(t, "T2", st.Initial.Titre)

	store.failErr = errors.New("")
	st, _ = f.SubmitCreate(context.Background(), domain.CreateProjectData{Titre: "T3"})
	assert.Equal(t, "Une erreur est survenue lors de la création du projet", st.Error)
}

func TestFormController_Edit(t *testing.T) {
	existing := project("a", "u1", "A")
	existing.Description = "desc"
	existing.SousTypesContenus = []domain.ContentTypeSelection{{TypeID: "blog", SubtypeIDs: []string{"x"}}}
	existing.Derive()
	store := &fakeStore{rows: []domain.Project{existing}}
	f := NewFormController(NewProjectState("u1", store, zerolog.Nop()))

	st, err := f.InitialData(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Modifier le projet", st.Title)
	assert.Equal(t, "desc", st.Initial.Description)
	assert.Equal(t, existing.SousTypesContenus, st.Initial.TypesContenus)

	data := st.Initial
	data.Titre = "A renamed"
	data.TypesContenus = nil
	st, err = f.SubmitEdit(context.Background(), "a", data)
	require.NoError(t, err)
	assert.Equal(t, "A renamed", st.Project.Titre)
	assert.Equal(t, 0, st.Project.ContentCount)

	store.failErr = errors.New("")
	st, err = f.SubmitEdit(context.Background(), "a", data)
	assert.Error(t, err)
	assert.True(t, st.Open)
	assert.Equal(t, "Une erreur est survenue lors de la mise à jour du projet", st.Error)
}
