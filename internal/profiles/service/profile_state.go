package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/internal/profiles/domain"
	"github.com/syl2042/contentmaestro/internal/state"
)

// Store is the query layer ProfileState delegates to.
type Store interface {
	List(ctx context.Context, userID string) ([]domain.WriterProfile, error)
	Get(ctx context.Context, id string) (*domain.WriterProfile, error)
	Create(ctx context.Context, p domain.WriterProfile) (*domain.WriterProfile, error)
	Update(ctx context.Context, id string, d domain.ProfileDraft) (*domain.WriterProfile, error)
	Delete(ctx context.Context, id string) error
}

var ErrUserRequired = errors.New("User ID is required")

// ProfileState is the cached profile list of one user plus the operations
// that keep it in line with the store.
type ProfileState struct {
	userID string
	store  Store
	coll   *state.Collection[domain.WriterProfile]
}

func NewProfileState(userID string, store Store, log zerolog.Logger) *ProfileState {
	coll := state.NewCollection(
		state.Names{Singular: "profile", Plural: "profiles"},
		store.List,
		func(p domain.WriterProfile) string { return p.ID },
		log.With().Str("component", "profiles.state").Str("user_id", userID).Logger(),
	)
	return &ProfileState{userID: userID, store: store, coll: coll}
}

// NewRegistry builds one ProfileState per user on demand.
func NewRegistry(store Store, log zerolog.Logger) *state.Registry[*ProfileState] {
	return state.NewRegistry(func(userID string) *ProfileState {
		return NewProfileState(userID, store, log)
	})
}

func (s *ProfileState) UserID() string {
	return s.userID
}

// Load fetches on first use; later calls serve the cache.
func (s *ProfileState) Load(ctx context.Context) error {
	return s.coll.SetUser(ctx, s.userID)
}

func (s *ProfileState) Refresh(ctx context.Context) error {
	if err := s.coll.SetUser(ctx, s.userID); err != nil {
		return err
	}
	return s.coll.Refresh(ctx)
}

func (s *ProfileState) Snapshot() state.Snapshot[domain.WriterProfile] {
	return s.coll.Snapshot()
}

// Filter filters the cached list on name or thematic specialty.
func (s *ProfileState) Filter(query string) []domain.WriterProfile {
	items := s.coll.Snapshot().Items
	out := make([]domain.WriterProfile, 0, len(items))
	for _, p := range items {
		if p.Matches(query) {
			out = append(out, p)
		}
	}
	return out
}

// Get serves from the cache and falls back to the store. Profiles owned by
// someone else are reported as not found.
func (s *ProfileState) Get(ctx context.Context, id string) (*domain.WriterProfile, error) {
	if p, ok := s.coll.Find(id); ok {
		return &p, nil
	}
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.UserID != s.userID {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *ProfileState) CreateProfile(ctx context.Context, p domain.WriterProfile) (*domain.WriterProfile, error) {
	if s.userID == "" {
		return nil, ErrUserRequired
	}
	p.UserID = s.userID
	if err := ValidateProfile(p); err != nil {
		return nil, err
	}

	created, err := s.coll.Create(ctx, func(ctx context.Context) (domain.WriterProfile, error) {
		out, err := s.store.Create(ctx, p)
		if err != nil {
			return domain.WriterProfile{}, err
		}
		return *out, nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CreateFromDraft validates d the way the wizard's last step does, fills in
// the SEO defaults and stores the result.
func (s *ProfileState) CreateFromDraft(ctx context.Context, d domain.ProfileDraft) (*domain.WriterProfile, error) {
	if s.userID == "" {
		return nil, ErrUserRequired
	}
	if err := domain.ValidateDraft(s.userID, d); err != nil {
		return nil, err
	}
	return s.CreateProfile(ctx, d.WithSEODefaults().Profile(s.userID))
}

func (s *ProfileState) UpdateProfile(ctx context.Context, id string, d domain.ProfileDraft) (*domain.WriterProfile, error) {
	if err := domain.ValidateChanges(d); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updated, err := s.coll.Update(ctx, id, func(ctx context.Context) (domain.WriterProfile, error) {
		out, err := s.store.Update(ctx, id, d)
		if err != nil {
			return domain.WriterProfile{}, err
		}
		return *out, nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProfileState) DeleteProfile(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.coll.Delete(ctx, id, func(ctx context.Context) error {
		return s.store.Delete(ctx, id)
	})
}

// Duplicate prepares a creation draft copied from an existing profile.
func (s *ProfileState) Duplicate(ctx context.Context, id string) (domain.ProfileDraft, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.ProfileDraft{}, err
	}
	return domain.Duplicate(*p), nil
}

// ValidateProfile checks the fields a profile cannot be stored without.
func ValidateProfile(p domain.WriterProfile) error {
	required := []struct {
		field string
		ok    bool
	}{
		{"nom_profil", p.NomProfil != ""},
		{"specialite_thematique", p.SpecialiteThematique != ""},
		{"style_ecriture", p.StyleEcriture != ""},
		{"ton", p.Ton != ""},
		{"niveau_langage", p.NiveauLangage != ""},
		{"traits_personnalite", len(p.TraitsPersonnalite) > 0},
		{"user_id", p.UserID != ""},
	}
	for _, f := range required {
		if !f.ok {
			return domain.MissingField(f.field)
		}
	}
	return nil
}
