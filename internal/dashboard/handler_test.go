package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syl2042/contentmaestro/internal/auth"
	profiledomain "github.com/syl2042/contentmaestro/internal/profiles/domain"
	profileservice "github.com/syl2042/contentmaestro/internal/profiles/service"
	"github.com/syl2042/contentmaestro/internal/projects/domain"
	projectservice "github.com/syl2042/contentmaestro/internal/projects/service"
	"github.com/syl2042/contentmaestro/internal/users"
)

type fakeUsers struct {
	name *string
	err  error
}

func (f fakeUsers) FirstName(context.Context, string) (*string, error) {
	return f.name, f.err
}

type projectStore struct {
	projectservice.Store
	rows []domain.Project
	err  error
}

func (s projectStore) ListRecent(context.Context, string) ([]domain.Project, error) {
	return s.rows, s.err
}

type profileStore struct {
	profileservice.Store
	rows []profiledomain.WriterProfile
}

func (s profileStore) List(context.Context, string) ([]profiledomain.WriterProfile, error) {
	return s.rows, nil
}

func setup(t *testing.T, u FirstNamer, projects projectStore, profiles profileStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	paris, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		paris = time.UTC
	}
	h := NewHandler(u,
		func(userID string) *profileservice.ProfileState {
			return profileservice.NewProfileState(userID, profiles, zerolog.Nop())
		},
		func(userID string) *projectservice.ProjectState {
			return projectservice.NewProjectState(userID, projects, zerolog.Nop())
		},
		paris,
		zerolog.Nop(),
	)
	h.now = func() time.Time { return time.Date(2026, time.October, 15, 6, 5, 0, 0, time.UTC).In(paris) }

	r := gin.New()
	h.Register(r.Group("/api/v1", auth.OptionalUser()))
	return r
}

func get(t *testing.T, r *gin.Engine, path string) map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestWelcome(t *testing.T) {
	name := "Camille"
	r := setup(t, fakeUsers{name: &name}, projectStore{}, profileStore{})

	body := get(t, r, "/api/v1/me/welcome")
	assert.Equal(t, "Bonjour, Camille", body["greeting"])
	assert.Contains(t, body["date"], "Jeudi 15 octobre 2026")
}

func TestWelcome_FallsBack(t *testing.T) {
	r := setup(t, fakeUsers{err: users.ErrUserNotFound}, projectStore{}, profileStore{})

	body := get(t, r, "/api/v1/me/welcome")
	assert.Equal(t, "Bonjour, Utilisateur", body["greeting"])
}

func TestDashboard(t *testing.T) {
	created := time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC)
	var rows []domain.Project
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		p := domain.Project{ID: id, UserID: "demo-user", Titre: id, Statut: domain.StatusDone, DateCreation: created,
			SousTypesContenus: []domain.ContentTypeSelection{{TypeID: "blog", SubtypeIDs: []string{"x"}}}}
		p.Derive()
		rows = append(rows, p)
	}
	profiles := profileStore{rows: []profiledomain.WriterProfile{{ID: "p1"}, {ID: "p2"}}}

	r := setup(t, fakeUsers{}, projectStore{rows: rows}, profiles)
	body := get(t, r, "/api/v1/dashboard")

	assert.EqualValues(t, 7, body["project_count"])
	assert.EqualValues(t, 2, body["profile_count"])
	recent := body["recent_projects"].([]any)
	require.Len(t, recent, 6)
	first := recent[0].(map[string]any)
	assert.Equal(t, "Terminé", first["status_label"])
	assert.Equal(t, "05/03/2026", first["created_label"])
	assert.EqualValues(t, 1, first["contentCount"])
	assert.Equal(t, "Bonjour, Utilisateur", body["welcome"].(map[string]any)["greeting"])
}

func TestDashboard_ProjectErrorIsReported(t *testing.T) {
	r := setup(t, fakeUsers{}, projectStore{err: errors.New("db unavailable")}, profileStore{})

	body := get(t, r, "/api/v1/dashboard")
	assert.Equal(t, "db unavailable", body["projects_error"])
	assert.EqualValues(t, 0, body["project_count"])
	assert.Equal(t, []any{}, body["recent_projects"])
}
