package http

import (
	"github.com/syl2042/contentmaestro/internal/profiles/domain"
	"github.com/syl2042/contentmaestro/internal/profiles/service"
	"github.com/syl2042/contentmaestro/internal/profiles/wizard"
)

// Handler bundles the dependencies for profile and wizard endpoints.
type Handler struct {
	states func(userID string) *service.ProfileState
	wizard *wizard.Controller
}

func New(states func(userID string) *service.ProfileState, wz *wizard.Controller) *Handler {
	return &Handler{states: states, wizard: wz}
}

type sessionView struct {
	ID         string                `json:"id"`
	Title      string                `json:"title"`
	ProfileID  string                `json:"profile_id,omitempty"`
	Step       int                   `json:"step"`
	StepTitle  string                `json:"step_title"`
	Steps      []string              `json:"steps"`
	IsLastStep bool                  `json:"is_last_step"`
	Draft      domain.ProfileDraft   `json:"draft"`
	Error      string                `json:"error,omitempty"`
	Completed  bool                  `json:"completed"`
	Profile    *domain.WriterProfile `json:"profile,omitempty"`
}

func toSessionView(s *wizard.Session) sessionView {
	return sessionView{
		ID:         s.ID,
		Title:      s.Title(),
		ProfileID:  s.ProfileID,
		Step:       s.Step,
		StepTitle:  s.StepTitle(),
		Steps:      wizard.Steps,
		IsLastStep: s.IsLastStep(),
		Draft:      s.Draft,
		Error:      s.Error,
		Completed:  s.Completed,
		Profile:    s.Result,
	}
}

func toSessionViews(in []*wizard.Session) []sessionView {
	out := make([]sessionView, 0, len(in))
	for _, s := range in {
		out = append(out, toSessionView(s))
	}
	return out
}
