package http

import (
	"github.com/syl2042/contentmaestro/internal/dashboard"
	"github.com/syl2042/contentmaestro/internal/projects/domain"
	"github.com/syl2042/contentmaestro/internal/projects/service"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	states func(userID string) *service.ProjectState
}

func New(states func(userID string) *service.ProjectState) *Handler {
	return &Handler{states: states}
}

// projectView is a project as the project cards display it.
type projectView struct {
	domain.Project
	StatusLabel  string `json:"status_label"`
	CreatedLabel string `json:"created_label"`
}

func toView(p domain.Project) projectView {
	return projectView{
		Project:      p,
		StatusLabel:  p.Statut.Label(),
		CreatedLabel: dashboard.FormatShortDate(p.DateCreation),
	}
}

func toViews(in []domain.Project) []projectView {
	out := make([]projectView, 0, len(in))
	for _, p := range in {
		out = append(out, toView(p))
	}
	return out
}

type formView struct {
	service.FormState
	Project *projectView `json:"project,omitempty"`
}

func toFormView(st service.FormState) formView {
	v := formView{FormState: st}
	if st.Project != nil {
		pv := toView(*st.Project)
		v.Project = &pv
	}
	return v
}
