package wizard

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/internal/logging"
	"github.com/syl2042/contentmaestro/internal/profiles/domain"
)

// Profiles is the per-user profile state the wizard reads from and saves to.
type Profiles interface {
	Persister
	Get(ctx context.Context, id string) (*domain.WriterProfile, error)
	Duplicate(ctx context.Context, id string) (domain.ProfileDraft, error)
}

type Sessions interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	ListByUser(ctx context.Context, userID string) ([]*Session, error)
	Delete(ctx context.Context, s *Session) error
	ClaimSubmit(ctx context.Context, s *Session) (bool, error)
	ReleaseSubmit(ctx context.Context, s *Session) error
}

// OpenRequest selects how a wizard starts: editing ProfileID, copying
// DuplicateOf into a new profile, or blank when both are empty.
type OpenRequest struct {
	ProfileID   string `json:"profile_id"`
	DuplicateOf string `json:"duplicate_of"`
}

type Controller struct {
	sessions Sessions
	profiles func(userID string) Profiles
	log      zerolog.Logger
}

func NewController(sessions Sessions, profiles func(userID string) Profiles, log zerolog.Logger) *Controller {
	return &Controller{
		sessions: sessions,
		profiles: profiles,
		log:      logging.Component(log, "profiles.wizard"),
	}
}

func (c *Controller) Open(ctx context.Context, userID string, req OpenRequest) (*Session, error) {
	var s *Session
	switch {
	case req.ProfileID != "":
		p, err := c.profiles(userID).Get(ctx, req.ProfileID)
		if err != nil {
			return nil, err
		}
		s = NewSession(userID, p)
	case req.DuplicateOf != "":
		d, err := c.profiles(userID).Duplicate(ctx, req.DuplicateOf)
		if err != nil {
			return nil, err
		}
		s = NewSessionFromDraft(userID, d)
	default:
		s = NewSession(userID, nil)
	}

	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	l := logging.Ctx(ctx, c.log)
	l.Info().
		Str("session_id", s.ID).
		Str("user_id", userID).
		Str("profile_id", s.ProfileID).
		Msg("wizard opened")
	return s, nil
}

// Get returns the session only to the user that opened it.
func (c *Controller) Get(ctx context.Context, userID, id string) (*Session, error) {
	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (c *Controller) List(ctx context.Context, userID string) ([]*Session, error) {
	return c.sessions.ListByUser(ctx, userID)
}

// Submit feeds one page of answers into the session. A failed save keeps the
// session, with its error message, and returns both. The last step runs under
// a Redis lock: a concurrent final submit of the same session gets
// ErrSessionClosed instead of saving the profile a second time.
func (c *Controller) Submit(ctx context.Context, userID, id string, step domain.ProfileDraft) (*Session, error) {
	s, err := c.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if s.Completed {
		return s, ErrSessionClosed
	}

	l := logging.Ctx(ctx, c.log)
	claimed := s.IsLastStep()
	if claimed {
		ok, err := c.sessions.ClaimSubmit(ctx, s)
		if err != nil {
			return nil, err
		}
		if !ok {
			l.Warn().Str("session_id", s.ID).Msg("wizard final submit already in progress")
			return s, ErrSessionClosed
		}
	}

	if err := s.Submit(ctx, step, c.profiles(userID)); err != nil {
		l.Warn().Err(err).Str("session_id", s.ID).Int("step", s.Step).Msg("wizard submit failed")
		if claimed {
			if relErr := c.sessions.ReleaseSubmit(ctx, s); relErr != nil {
				return nil, relErr
			}
		}
		if saveErr := c.sessions.Save(ctx, s); saveErr != nil {
			return nil, saveErr
		}
		return s, err
	}

	if s.Completed {
		l.Info().Str("session_id", s.ID).Str("profile_id", s.Result.ID).Msg("wizard completed")
		if err := c.sessions.Delete(ctx, s); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (c *Controller) Previous(ctx context.Context, userID, id string) (*Session, error) {
	return c.move(ctx, userID, id, (*Session).Previous)
}

func (c *Controller) GoTo(ctx context.Context, userID, id string, step int) (*Session, error) {
	return c.move(ctx, userID, id, func(s *Session) { s.GoTo(step) })
}

// Close abandons the session.
func (c *Controller) Close(ctx context.Context, userID, id string) error {
	s, err := c.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	return c.sessions.Delete(ctx, s)
}

func (c *Controller) move(ctx context.Context, userID, id string, fn func(*Session)) (*Session, error) {
	s, err := c.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	fn(s)
	if err := c.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
