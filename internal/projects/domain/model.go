package domain

import "time"

type Status string

const (
	StatusInProgress Status = "en_cours"
	StatusDone       Status = "termine"
	StatusArchived   Status = "archive"
)

var statusLabels = map[Status]string{
	StatusInProgress: "En cours",
	StatusDone:       "Terminé",
	StatusArchived:   "Archivé",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the French display name; unknown statuses are shown as is.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// ContentTypeSelection is one content type picked for a project together
// with the subtypes chosen under it.
type ContentTypeSelection struct {
	TypeID     string   `json:"type_id"`
	SubtypeIDs []string `json:"subtype_ids"`
}

// Project is a row of projets. TypesContenus carries the full selections
// (copied from SousTypesContenus on read) while TypeIDs keeps the bare
// type id column.
type Project struct {
	ID                string                 `json:"id"`
	UserID            string                 `json:"user_id"`
	Titre             string                 `json:"titre"`
	Description       string                 `json:"description"`
	Statut            Status                 `json:"statut"`
	TypeIDs           []string               `json:"type_ids"`
	TypesContenus     []ContentTypeSelection `json:"types_contenus"`
	SousTypesContenus []ContentTypeSelection `json:"sous_types_contenus"`
	Progression       int                    `json:"progression"`
	DateCreation      time.Time              `json:"date_creation"`
	DateModification  time.Time              `json:"date_modification"`
	ContentCount      int                    `json:"contentCount"`
}

// Derive fills the fields computed from the stored selections.
func (p *Project) Derive() {
	if p.SousTypesContenus == nil {
		p.SousTypesContenus = []ContentTypeSelection{}
	}
	p.TypesContenus = p.SousTypesContenus
	p.ContentCount = ContentCount(p.SousTypesContenus)
	if p.TypeIDs == nil {
		p.TypeIDs = []string{}
	}
}

type CreateProjectData struct {
	Titre         string                 `json:"titre"`
	Description   string                 `json:"description"`
	Statut        Status                 `json:"statut"`
	TypesContenus []ContentTypeSelection `json:"types_contenus"`
}

// UpdateProjectData holds the fields to change; nil means unchanged. Non-nil
// TypesContenus rewrites both content type columns.
type UpdateProjectData struct {
	Titre         *string                `json:"titre,omitempty"`
	Description   *string                `json:"description,omitempty"`
	Statut        *Status                `json:"statut,omitempty"`
	TypesContenus []ContentTypeSelection `json:"types_contenus,omitempty"`
}

// InitialData is what the edit form starts from.
func (p Project) InitialData() CreateProjectData {
	return CreateProjectData{
		Titre:         p.Titre,
		Description:   p.Description,
		Statut:        p.Statut,
		TypesContenus: p.TypesContenus,
	}
}

func TypeIDs(sel []ContentTypeSelection) []string {
	ids := make([]string, 0, len(sel))
	for _, s := range sel {
		ids = append(ids, s.TypeID)
	}
	return ids
}

// ContentCount sums the subtypes selected across all content types.
func ContentCount(sel []ContentTypeSelection) int {
	n := 0
	for _, s := range sel {
		n += len(s.SubtypeIDs)
	}
	return n
}
