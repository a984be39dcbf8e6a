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
	"github.com/syl2042/contentmaestro/internal/profiles/domain"
)

const table = "profils_redacteurs"

const profileColumns = `id, user_id, nom_profil, specialite_thematique, style_ecriture, ton, niveau_langage,
       traits_personnalite, parametres_seo, recommandations_actives, parametres_recommandations,
       date_creation, date_modification`

// ProfileRepository issues one statement per call against profils_redacteurs.
// Driver errors are returned unchanged.
type ProfileRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB, log zerolog.Logger) *ProfileRepository {
	return &ProfileRepository{db: db, log: logging.Component(log, "profiles.repository")}
}

// List returns the user's profiles, newest first.
func (r *ProfileRepository) List(ctx context.Context, userID string) ([]domain.WriterProfile, error) {
	l := r.logger(ctx, "list")
	l.Debug().Str("user_id", userID).Msg("fetching profiles")

	q := `
SELECT ` + profileColumns + `
FROM profils_redacteurs
WHERE user_id = $1
ORDER BY date_creation DESC;
`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		l.Error().Err(err).Msg("error fetching profiles")
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.WriterProfile, 0, 16)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			l.Error().Err(err).Msg("error decoding profile")
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		l.Error().Err(err).Msg("error fetching profiles")
		return nil, err
	}

	l.Debug().Int("rows", len(out)).Msg("fetched profiles")
	return out, nil
}

// Get returns a single profile or domain.ErrNotFound.
func (r *ProfileRepository) Get(ctx context.Context, id string) (*domain.WriterProfile, error) {
	l := r.logger(ctx, "get")
	l.Debug().Str("profile_id", id).Msg("fetching profile")

	q := `
SELECT ` + profileColumns + `
FROM profils_redacteurs
WHERE id = $1;
`
	p, err := scanProfile(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		l.Error().Err(err).Msg("error fetching profile")
		return nil, err
	}
	return p, nil
}

// Create inserts p under a fresh id. The store sets both timestamps.
func (r *ProfileRepository) Create(ctx context.Context, p domain.WriterProfile) (*domain.WriterProfile, error) {
	l := r.logger(ctx, "create")

	required := []struct {
		field string
		value string
	}{
		{"user_id", p.UserID},
		{"nom_profil", p.NomProfil},
		{"specialite_thematique", p.SpecialiteThematique},
		{"style_ecriture", p.StyleEcriture},
		{"ton", p.Ton},
		{"niveau_langage", p.NiveauLangage},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, domain.MissingField(f.field)
		}
	}

	seo, err := json.Marshal(p.ParametresSEO)
	if err != nil {
		return nil, fmt.Errorf("encode parametres_seo: %w", err)
	}
	recParams, err := nullableJSON(p.ParametresRecommandations)
	if err != nil {
		return nil, fmt.Errorf("encode parametres_recommandations: %w", err)
	}
	traits := p.TraitsPersonnalite
	if traits == nil {
		traits = []string{}
	}

	l.Debug().Str("user_id", p.UserID).Str("nom_profil", p.NomProfil).Msg("creating profile")

	q := `
INSERT INTO profils_redacteurs (
	id, user_id, nom_profil, specialite_thematique, style_ecriture, ton, niveau_langage,
	traits_personnalite, parametres_seo, recommandations_actives, parametres_recommandations,
	date_creation, date_modification
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())
RETURNING ` + profileColumns + `;
`
	created, err := scanProfile(r.db.QueryRowContext(ctx, q,
		uuid.New().String(),
		p.UserID,
		p.NomProfil,
		p.SpecialiteThematique,
		p.StyleEcriture,
		p.Ton,
		p.NiveauLangage,
		pq.Array(traits),
		string(seo),
		p.RecommandationsActives,
		recParams,
	))
	if err != nil {
		l.Error().Err(err).Msg("error creating profile")
		return nil, err
	}

	l.Debug().Str("profile_id", created.ID).Msg("profile created")
	return created, nil
}

// Update writes the fields present in d and bumps date_modification.
func (r *ProfileRepository) Update(ctx context.Context, id string, d domain.ProfileDraft) (*domain.WriterProfile, error) {
	l := r.logger(ctx, "update")
	l.Debug().Str("profile_id", id).Msg("updating profile")

	var traits any
	if d.TraitsPersonnalite != nil {
		traits = pq.Array(d.TraitsPersonnalite)
	}
	var seo any
	if d.ParametresSEO != nil {
		// fill the gaps from the stored record so a partial SEO draft never
		// wipes the other key
		raw, err := json.Marshal(d.ParametresSEO)
		if err != nil {
			return nil, fmt.Errorf("encode parametres_seo: %w", err)
		}
		seo = string(raw)
	}
	recParams, err := nullableJSON(d.ParametresRecommandations)
	if err != nil {
		return nil, fmt.Errorf("encode parametres_recommandations: %w", err)
	}

	q := `
UPDATE profils_redacteurs
SET nom_profil = COALESCE($2, nom_profil),
    specialite_thematique = COALESCE($3, specialite_thematique),
    style_ecriture = COALESCE($4, style_ecriture),
    ton = COALESCE($5, ton),
    niveau_langage = COALESCE($6, niveau_langage),
    traits_personnalite = COALESCE($7, traits_personnalite),
    parametres_seo = COALESCE(parametres_seo || $8::jsonb, parametres_seo),
    recommandations_actives = COALESCE($9, recommandations_actives),
    parametres_recommandations = COALESCE($10, parametres_recommandations),
    date_modification = now()
WHERE id = $1
RETURNING ` + profileColumns + `;
`
	updated, err := scanProfile(r.db.QueryRowContext(ctx, q,
		id,
		d.NomProfil,
		d.SpecialiteThematique,
		d.StyleEcriture,
		d.Ton,
		d.NiveauLangage,
		traits,
		seo,
		d.RecommandationsActives,
		recParams,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		l.Error().Err(err).Msg("error updating profile")
		return nil, err
	}

	l.Debug().Str("profile_id", id).Msg("profile updated")
	return updated, nil
}

// Delete removes the profile; an unknown id yields domain.ErrNotFound.
func (r *ProfileRepository) Delete(ctx context.Context, id string) error {
	l := r.logger(ctx, "delete")
	l.Debug().Str("profile_id", id).Msg("deleting profile")

	const q = `DELETE FROM profils_redacteurs WHERE id = $1;`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		l.Error().Err(err).Msg("error deleting profile")
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}

	l.Debug().Str("profile_id", id).Msg("profile deleted")
	return nil
}

func (r *ProfileRepository) logger(ctx context.Context, operation string) zerolog.Logger {
	return logging.Ctx(ctx, r.log).With().Str("table", table).Str("operation", operation).Logger()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.WriterProfile, error) {
	var (
		p         domain.WriterProfile
		traits    pq.StringArray
		seo       []byte
		recActive sql.NullBool
		recParams []byte
	)
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.NomProfil,
		&p.SpecialiteThematique,
		&p.StyleEcriture,
		&p.Ton,
		&p.NiveauLangage,
		&traits,
		&seo,
		&recActive,
		&recParams,
		&p.DateCreation,
		&p.DateModification,
	)
	if err != nil {
		return nil, err
	}

	p.TraitsPersonnalite = []string(traits)
	if p.TraitsPersonnalite == nil {
		p.TraitsPersonnalite = []string{}
	}
	if len(seo) > 0 {
		if err := json.Unmarshal(seo, &p.ParametresSEO); err != nil {
			return nil, fmt.Errorf("decode parametres_seo: %w", err)
		}
	}
	if recActive.Valid {
		v := recActive.Bool
		p.RecommandationsActives = &v
	}
	if len(recParams) > 0 {
		var rp domain.RecommendationParams
		if err := json.Unmarshal(recParams, &rp); err != nil {
			return nil, fmt.Errorf("decode parametres_recommandations: %w", err)
		}
		p.ParametresRecommandations = &rp
	}
	return &p, nil
}

func nullableJSON(v *domain.RecommendationParams) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
