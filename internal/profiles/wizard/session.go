package wizard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/syl2042/contentmaestro/internal/profiles/domain"
	"github.com/syl2042/contentmaestro/internal/state"
)

// Steps are the wizard pages, in order.
var Steps = []string{
	"Informations Générales",
	"Style et Ton",
	"Traits de Personnalité",
	"Paramètres Avancés",
}

const (
	titleCreate = "Créer un Nouveau Profil"
	titleEdit   = "Modifier le Profil"

	fallbackMessage = "Une erreur est survenue"
)

// Persister stores the profile a finished wizard produces.
type Persister interface {
	CreateProfile(ctx context.Context, p domain.WriterProfile) (*domain.WriterProfile, error)
	UpdateProfile(ctx context.Context, id string, d domain.ProfileDraft) (*domain.WriterProfile, error)
}

// Session is one run of the profile wizard. It round-trips through JSON so
// it can live in Redis between requests.
type Session struct {
	ID        string                `json:"id"`
	UserID    string                `json:"user_id"`
	ProfileID string                `json:"profile_id,omitempty"`
	Step      int                   `json:"step"`
	Draft     domain.ProfileDraft   `json:"draft"`
	Error     string                `json:"error,omitempty"`
	Completed bool                  `json:"completed"`
	Result    *domain.WriterProfile `json:"result,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// NewSession opens the wizard at its first step. With a profile the wizard
// edits it, otherwise it starts from the default draft.
func NewSession(userID string, profile *domain.WriterProfile) *Session {
	now := time.Now().UTC()
	s := &Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		Draft:     domain.DefaultDraft(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if profile != nil {
		s.ProfileID = profile.ID
		s.Draft = domain.DraftFromProfile(*profile)
	}
	return s
}

// NewSessionFromDraft opens a creation wizard prefilled with d, as used by
// profile duplication.
func NewSessionFromDraft(userID string, d domain.ProfileDraft) *Session {
	s := NewSession(userID, nil)
	s.Draft = d
	return s
}

func (s *Session) Title() string {
	if s.ProfileID != "" {
		return titleEdit
	}
	return titleCreate
}

func (s *Session) StepTitle() string {
	return Steps[s.Step]
}

func (s *Session) IsLastStep() bool {
	return s.Step == len(Steps)-1
}

func (s *Session) Previous() {
	if s.Step > 0 {
		s.Step--
	}
	s.touch()
}

// GoTo jumps to step, clamped to the valid range.
func (s *Session) GoTo(step int) {
	switch {
	case step < 0:
		step = 0
	case step >= len(Steps):
		step = len(Steps) - 1
	}
	s.Step = step
	s.touch()
}

// Submit merges the current page's fields into the draft. Before the last
// page it only advances. On the last page the draft is validated and
// persisted; on failure the session keeps its step and records the message.
func (s *Session) Submit(ctx context.Context, step domain.ProfileDraft, p Persister) error {
	s.Error = ""
	s.Completed = false
	s.Result = nil
	s.Draft.Merge(step)
	s.touch()

	if !s.IsLastStep() {
		s.Step++
		return nil
	}

	if err := domain.ValidateDraft(s.UserID, s.Draft); err != nil {
		s.Error = err.Error()
		return err
	}

	final := s.Draft.WithSEODefaults()
	var (
		saved *domain.WriterProfile
		err   error
	)
	if s.ProfileID != "" {
		saved, err = p.UpdateProfile(ctx, s.ProfileID, final)
	} else {
		saved, err = p.CreateProfile(ctx, final.Profile(s.UserID))
	}
	if err != nil {
		s.Error = err.Error()
		if s.Error == "" || state.IsFallback(err) {
			s.Error = fallbackMessage
		}
		return err
	}

	s.Draft = domain.DefaultDraft()
	s.Step = 0
	s.Completed = true
	s.Result = saved
	return nil
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}

