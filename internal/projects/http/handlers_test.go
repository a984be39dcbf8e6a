package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syl2042/contentmaestro/internal/auth"
	"github.com/syl2042/contentmaestro/internal/projects/domain"
	"github.com/syl2042/contentmaestro/internal/projects/service"
)

type memStore struct {
	mu        sync.Mutex
	rows      []domain.Project
	listErr   error
	createErr error
	seq       int
}

func (m *memStore) ListRecent(_ context.Context, userID string) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []domain.Project
	for _, r := range m.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memStore) Get(_ context.Context, id string) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) Create(_ context.Context, userID string, data domain.CreateProjectData) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return nil, m.createErr
	}
	if data.Titre == "" {
		return nil, &domain.ValidationError{Field: "titre"}
	}
	m.seq++
	p := domain.Project{
		ID:                "prj-" + strconv.Itoa(m.seq),
		UserID:            userID,
		Titre:             data.Titre,
		Description:       data.Description,
		Statut:            data.Statut,
		TypeIDs:           domain.TypeIDs(data.TypesContenus),
		SousTypesContenus: data.TypesContenus,
		DateCreation:      time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC),
	}
	p.Derive()
	m.rows = append([]domain.Project{p}, m.rows...)
	return &p, nil
}

func (m *memStore) Update(_ context.Context, id string, data domain.UpdateProjectData) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID != id {
			continue
		}
		if data.Titre != nil {
			r.Titre = *data.Titre
		}
		if data.Description != nil {
			r.Description = *data.Description
		}
		if data.Statut != nil {
			r.Statut = *data.Statut
		}
		if data.TypesContenus != nil {
			r.SousTypesContenus = data.TypesContenus
			r.TypeIDs = domain.TypeIDs(data.TypesContenus)
		}
		r.Derive()
		m.rows[i] = r
		return &r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func sample(id, user, titre string) domain.Project {
	p := domain.Project{
		ID:     id,
		UserID: user,
		Titre:  titre,
		Statut: domain.StatusInProgress,
		SousTypesContenus: []domain.ContentTypeSelection{
			{TypeID: "blog", SubtypeIDs: []string{"article", "tutoriel"}},
		},
		TypeIDs:      []string{"blog"},
		DateCreation: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
	}
	p.Derive()
	return p
}

func setupRouter(t *testing.T, store *memStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := service.NewRegistry(store, zerolog.Nop())
	r := gin.New()
	r.Use(auth.OptionalUser())
	New(reg.For).Register(r.Group("/projects"))
	return r
}

func do(r *gin.Engine, method, path, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-User-Id", user)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestList(t *testing.T) {
	store := &memStore{rows: []domain.Project{
		sample("p1", "u1", "Blog voyage"),
		sample("p2", "u2", "Autre"),
	}}
	r := setupRouter(t, store)

	w := do(r, http.MethodGet, "/projects", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	items := body["projects"].([]any)
	require.Len(t, items, 1)
	card := items[0].(map[string]any)
	assert.Equal(t, "Blog voyage", card["titre"])
	assert.Equal(t, "En cours", card["status_label"])
	assert.Equal(t, "04/03/2026", card["created_label"])
	assert.Equal(t, float64(2), card["contentCount"])
}

func TestList_ErrorKeepsCachedProjects(t *testing.T) {
	store := &memStore{rows: []domain.Project{sample("p1", "u1", "Blog")}}
	r := setupRouter(t, store)
	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/projects", "u1", "").Code)

	store.listErr = errors.New("connection refused")
	w := do(r, http.MethodGet, "/projects?refresh=true", "u1", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)

	body := decode(t, w)
	assert.Equal(t, "connection refused", body["error"])
	assert.Len(t, body["projects"], 1)
}

func TestList_RetriesAfterFailedFetch(t *testing.T) {
	store := &memStore{
		rows:    []domain.Project{sample("p1", "u1", "Blog")},
		listErr: errors.New("connection refused"),
	}
	r := setupRouter(t, store)

	require.Equal(t, http.StatusBadGateway, do(r, http.MethodGet, "/projects", "u1", "").Code)

	w := do(r, http.MethodGet, "/projects", "u1", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "errored", decode(t, w)["status"])

	store.listErr = nil
	w = do(r, http.MethodGet, "/projects", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["projects"], 1)
}

func TestGet(t *testing.T) {
	store := &memStore{rows: []domain.Project{sample("p1", "u1", "Blog")}}
	r := setupRouter(t, store)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/projects/p1", "u1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/projects/p1", "u2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/projects/missing", "u1", "").Code)
}

func TestCreate(t *testing.T) {
	store := &memStore{}
	r := setupRouter(t, store)

	t.Run("created project is returned and cached", func(t *testing.T) {
		w := do(r, http.MethodPost, "/projects", "u1",
			`{"titre":"  Newsletter  ","statut":"en_cours","types_contenus":[{"type_id":"email","subtype_ids":["hebdo"]}]}`)
		require.Equal(t, http.StatusCreated, w.Code)

		body := decode(t, w)
		project := body["project"].(map[string]any)
		assert.Equal(t, "Newsletter", project["titre"])
		assert.Equal(t, float64(1), project["contentCount"])
		assert.Equal(t, "15/10/2026", project["created_label"])

		w = do(r, http.MethodGet, "/projects", "u1", "")
		assert.Len(t, decode(t, w)["projects"], 1)
	})

	t.Run("missing title is a bad request with the form kept open", func(t *testing.T) {
		w := do(r, http.MethodPost, "/projects", "u1", `{"titre":"  ","statut":"en_cours"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		form := decode(t, w)["form"].(map[string]any)
		assert.Equal(t, true, form["open"])
		assert.Equal(t, "Missing required field: titre", form["error"])
		assert.Equal(t, "Créer un nouveau projet", form["title"])
	})

	t.Run("empty error message falls back to the French text", func(t *testing.T) {
		store.createErr = errors.New("")
		defer func() { store.createErr = nil }()

		w := do(r, http.MethodPost, "/projects", "u1", `{"titre":"X","statut":"en_cours"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, "Une erreur est survenue lors de la création du projet", decode(t, w)["error"])
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(r, http.MethodPost, "/projects", "u1", `{`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateAndDelete(t *testing.T) {
	store := &memStore{rows: []domain.Project{sample("p1", "u1", "Blog")}}
	r := setupRouter(t, store)

	w := do(r, http.MethodPatch, "/projects/p1", "u1", `{"statut":"termine"}`)
	require.Equal(t, http.StatusOK, w.Code)
	project := decode(t, w)["project"].(map[string]any)
	assert.Equal(t, "Terminé", project["status_label"])
	assert.Equal(t, "Blog", project["titre"])

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPatch, "/projects/p1", "u2", `{"statut":"termine"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/projects/p1", "u2", "").Code)

	require.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/projects/p1", "u1", "").Code)
	assert.Empty(t, store.rows)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodDelete, "/projects/p1", "u1", "").Code)
}

func TestEditForm(t *testing.T) {
	store := &memStore{rows: []domain.Project{sample("p1", "u1", "Blog")}}
	r := setupRouter(t, store)

	w := do(r, http.MethodGet, "/projects/p1/form", "u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	form := decode(t, w)["form"].(map[string]any)
	assert.Equal(t, "Modifier le projet", form["title"])
	initial := form["initial"].(map[string]any)
	assert.Equal(t, "Blog", initial["titre"])
	assert.Len(t, initial["types_contenus"], 1)

	// omitted content types are cleared, not kept
	w = do(r, http.MethodPut, "/projects/p1/form", "u1", `{"titre":"Blog v2","description":"","statut":"archive"}`)
	require.Equal(t, http.StatusOK, w.Code)
	project := decode(t, w)["project"].(map[string]any)
	assert.Equal(t, "Blog v2", project["titre"])
	assert.Equal(t, float64(0), project["contentCount"])
	assert.Empty(t, store.rows[0].TypeIDs)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/projects/p1/form", "u2", "").Code)
}
