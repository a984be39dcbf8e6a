package service

import (
	"context"

	"github.com/syl2042/contentmaestro/internal/projects/domain"
	"github.com/syl2042/contentmaestro/internal/state"
)

const (
	createTitle = "Créer un nouveau projet"
	editTitle   = "Modifier le projet"

	createFallback = "Une erreur est survenue lors de la création du projet"
	updateFallback = "Une erreur est survenue lors de la mise à jour du projet"
)

// FormState is what the create/edit dialog shows after a submission. Open
// stays true when the submission failed so the user can correct it.
type FormState struct {
	Title   string                   `json:"title"`
	Open    bool                     `json:"open"`
	Error   string                   `json:"error,omitempty"`
	Initial domain.CreateProjectData `json:"initial"`
	Project *domain.Project          `json:"project,omitempty"`
}

// FormController drives the project create and edit dialogs.
type FormController struct {
	projects *ProjectState
}

func NewFormController(projects *ProjectState) *FormController {
	return &FormController{projects: projects}
}

// InitialData opens the edit dialog prefilled from the project.
func (f *FormController) InitialData(ctx context.Context, id string) (FormState, error) {
	p, err := f.projects.Get(ctx, id)
	if err != nil {
		return FormState{}, err
	}
	return FormState{Title: editTitle, Open: true, Initial: p.InitialData()}, nil
}

func (f *FormController) SubmitCreate(ctx context.Context, data domain.CreateProjectData) (FormState, error) {
	st := FormState{Title: createTitle, Initial: data}

	p, err := f.projects.CreateProject(ctx, data)
	if err != nil {
		st.Open = true
		st.Error = message(err, createFallback)
		return st, err
	}
	st.Project = p
	return st, nil
}

// SubmitEdit sends every form field, so content types are always rewritten.
func (f *FormController) SubmitEdit(ctx context.Context, id string, data domain.CreateProjectData) (FormState, error) {
	st := FormState{Title: editTitle, Initial: data}

	types := data.TypesContenus
	if types == nil {
		types = []domain.ContentTypeSelection{}
	}
	p, err := f.projects.UpdateProject(ctx, id, domain.UpdateProjectData{
		Titre:         &data.Titre,
		Description:   &data.Description,
		Statut:        &data.Statut,
		TypesContenus: types,
	})
	if err != nil {
		st.Open = true
		st.Error = message(err, updateFallback)
		return st, err
	}
	st.Project = p
	return st, nil
}

func message(err error, fallback string) string {
	if state.IsFallback(err) || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
