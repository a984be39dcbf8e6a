package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/internal/auth"
	"github.com/syl2042/contentmaestro/internal/logging"
	profileservice "github.com/syl2042/contentmaestro/internal/profiles/service"
	"github.com/syl2042/contentmaestro/internal/projects/domain"
	projectservice "github.com/syl2042/contentmaestro/internal/projects/service"
)

const recentProjects = 6

type FirstNamer interface {
	FirstName(ctx context.Context, userID string) (*string, error)
}

// Handler serves the dashboard landing data.
type Handler struct {
	users    FirstNamer
	profiles func(userID string) *profileservice.ProfileState
	projects func(userID string) *projectservice.ProjectState
	loc      *time.Location
	now      func() time.Time
	log      zerolog.Logger
}

func NewHandler(
	users FirstNamer,
	profiles func(userID string) *profileservice.ProfileState,
	projects func(userID string) *projectservice.ProjectState,
	loc *time.Location,
	log zerolog.Logger,
) *Handler {
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		users:    users,
		profiles: profiles,
		projects: projects,
		loc:      loc,
		now:      time.Now,
		log:      logging.Component(log, "dashboard"),
	}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)
	rg.GET("/me/welcome", h.welcome)
}

type welcomeView struct {
	Greeting string `json:"greeting"`
	Date     string `json:"date"`
}

type recentProject struct {
	ID           string `json:"id"`
	Titre        string `json:"titre"`
	Statut       string `json:"statut"`
	StatusLabel  string `json:"status_label"`
	ContentCount int    `json:"contentCount"`
	Progression  int    `json:"progression"`
	CreatedLabel string `json:"created_label"`
}

// welcomeFor never fails: a missing or unreadable first name falls back to
// the generic greeting.
func (h *Handler) welcomeFor(ctx context.Context, userID string) welcomeView {
	prenom, err := h.users.FirstName(ctx, userID)
	if err != nil {
		l := logging.Ctx(ctx, h.log)
		l.Warn().Err(err).Str("user_id", userID).Msg("error fetching user profile")
		prenom = nil
	}
	return welcomeView{
		Greeting: Greeting(prenom),
		Date:     FormatLongDate(h.now().In(h.loc)),
	}
}

func (h *Handler) welcome(c *gin.Context) {
	v := h.welcomeFor(c.Request.Context(), auth.UserID(c))
	c.JSON(http.StatusOK, gin.H{"ok": true, "greeting": v.Greeting, "date": v.Date})
}

func (h *Handler) dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID := auth.UserID(c)

	resp := gin.H{"ok": true, "welcome": h.welcomeFor(ctx, userID)}

	projects := h.projects(userID)
	if err := firstErr(projects.Load(ctx), projects.Snapshot().Err); err != nil {
		resp["projects_error"] = err.Error()
	}
	all := projects.Recent(0)
	resp["project_count"] = len(all)
	resp["recent_projects"] = h.recent(projects.Recent(recentProjects))

	profiles := h.profiles(userID)
	if err := firstErr(profiles.Load(ctx), profiles.Snapshot().Err); err != nil {
		resp["profiles_error"] = err.Error()
	}
	resp["profile_count"] = len(profiles.Snapshot().Items)

	c.JSON(http.StatusOK, resp)
}

// firstErr prefers the load error and otherwise reports the one the
// collection still carries from an earlier fetch.
func firstErr(load, recorded error) error {
	if load != nil {
		return load
	}
	return recorded
}

func (h *Handler) recent(in []domain.Project) []recentProject {
	out := make([]recentProject, 0, len(in))
	for _, p := range in {
		created := p.DateCreation
		if !created.IsZero() {
			created = created.In(h.loc)
		}
		out = append(out, recentProject{
			ID:           p.ID,
			Titre:        p.Titre,
			Statut:       string(p.Statut),
			StatusLabel:  p.Statut.Label(),
			ContentCount: p.ContentCount,
			Progression:  p.Progression,
			CreatedLabel: FormatShortDate(created),
		})
	}
	return out
}
