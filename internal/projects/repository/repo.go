package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/internal/logging"
	"github.com/syl2042/contentmaestro/internal/projects/domain"
)

const table = "projets"

const projectColumns = `id, user_id, titre, description, statut, types_contenus, sous_types_contenus,
       progression, date_creation, date_modification`

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB, log zerolog.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, log: logging.Component(log, "projects.repository")}
}

// ListRecent returns the user's projects, most recently modified first.
func (r *ProjectRepository) ListRecent(ctx context.Context, userID string) ([]domain.Project, error) {
	l := r.logger(ctx, "list_recent")
	l.Debug().Str("user_id", userID).Msg("fetching recent projects")

	q := `
SELECT ` + projectColumns + `
FROM projets
WHERE user_id = $1
ORDER BY date_modification DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		l.Error().Err(err).Msg("error fetching recent projects")
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Project, 0, 16)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			l.Error().Err(err).Msg("error decoding project")
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		l.Error().Err(err).Msg("error fetching recent projects")
		return nil, err
	}
	return out, nil
}

// Get returns a single project or domain.ErrNotFound.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	l := r.logger(ctx, "get")
	l.Debug().Str("project_id", id).Msg("fetching project details")

	q := `
SELECT ` + projectColumns + `
FROM projets
WHERE id = $1;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		l.Error().Err(err).Msg("error fetching project details")
		return nil, err
	}
	return p, nil
}

// Create inserts a project at progression 0. types_contenus receives the
// selected type ids and sous_types_contenus the full selections.
func (r *ProjectRepository) Create(ctx context.Context, userID string, data domain.CreateProjectData) (*domain.Project, error) {
	l := r.logger(ctx, "create")

	if userID == "" {
		return nil, &domain.ValidationError{Field: "user_id"}
	}
	if data.Titre == "" {
		return nil, &domain.ValidationError{Field: "titre"}
	}
	if !data.Statut.Valid() {
		return nil, &domain.ValidationError{Field: "statut", Message: fmt.Sprintf("Invalid statut: %q", data.Statut)}
	}

	selections, err := encodeSelections(data.TypesContenus)
	if err != nil {
		return nil, err
	}

	l.Debug().Str("user_id", userID).Str("titre", data.Titre).Msg("creating project")

	q := `
INSERT INTO projets (
	id, user_id, titre, description, statut, types_contenus, sous_types_contenus,
	progression, date_creation, date_modification
)
VALUES ($1, $2, $3, $4, $5, $6, $7, 0, now(), now())
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q,
		uuid.New().String(),
		userID,
		data.Titre,
		data.Description,
		string(data.Statut),
		pq.Array(domain.TypeIDs(data.TypesContenus)),
		selections,
	))
	if err != nil {
		l.Error().Err(err).Msg("error creating project")
		return nil, err
	}

	l.Debug().Str("project_id", p.ID).Msg("project created")
	return p, nil
}

// Update writes the provided fields and bumps date_modification.
func (r *ProjectRepository) Update(ctx context.Context, id string, data domain.UpdateProjectData) (*domain.Project, error) {
	l := r.logger(ctx, "update")
	l.Debug().Str("project_id", id).Msg("updating project")

	if data.Statut != nil && !data.Statut.Valid() {
		return nil, &domain.ValidationError{Field: "statut", Message: fmt.Sprintf("Invalid statut: %q", *data.Statut)}
	}

	var statut any
	if data.Statut != nil {
		statut = string(*data.Statut)
	}
	var typeIDs, selections any
	if data.TypesContenus != nil {
		typeIDs = pq.Array(domain.TypeIDs(data.TypesContenus))
		s, err := encodeSelections(data.TypesContenus)
		if err != nil {
			return nil, err
		}
		selections = s
	}

	q := `
UPDATE projets
SET titre = COALESCE($2, titre),
    description = COALESCE($3, description),
    statut = COALESCE($4, statut),
    types_contenus = COALESCE($5, types_contenus),
    sous_types_contenus = COALESCE($6::jsonb, sous_types_contenus),
    date_modification = now()
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	p, err := scanProject(r.db.QueryRowContext(ctx, q,
		id,
		data.Titre,
		data.Description,
		statut,
		typeIDs,
		selections,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		l.Error().Err(err).Msg("error updating project")
		return nil, err
	}
	return p, nil
}

// Delete removes the project; an unknown id yields domain.ErrNotFound.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	l := r.logger(ctx, "delete")
	l.Debug().Str("project_id", id).Msg("deleting project")

	const q = `DELETE FROM projets WHERE id = $1;`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		l.Error().Err(err).Msg("error deleting project")
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProjectRepository) logger(ctx context.Context, operation string) zerolog.Logger {
	return logging.Ctx(ctx, r.log).With().Str("table", table).Str("operation", operation).Logger()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p          domain.Project
		statut     string
		typeIDs    pq.StringArray
		selections []byte
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Titre,
		&p.Description,
		&statut,
		&typeIDs,
		&selections,
		&p.Progression,
		&p.DateCreation,
		&p.DateModification,
	)
	if err != nil {
		return nil, err
	}

	p.Statut = domain.Status(statut)
	p.TypeIDs = []string(typeIDs)
	if len(selections) > 0 {
		if err := json.Unmarshal(selections, &p.SousTypesContenus); err != nil {
			return nil, fmt.Errorf("decode sous_types_contenus: %w", err)
		}
	}
	p.Derive()
	return &p, nil
}

func encodeSelections(sel []domain.ContentTypeSelection) (string, error) {
	if sel == nil {
		sel = []domain.ContentTypeSelection{}
	}
	raw, err := json.Marshal(sel)
	if err != nil {
		return "", fmt.Errorf("encode sous_types_contenus: %w", err)
	}
	return string(raw), nil
}
