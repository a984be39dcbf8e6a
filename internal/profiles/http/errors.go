package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/syl2042/contentmaestro/internal/profiles/domain"
	"github.com/syl2042/contentmaestro/internal/profiles/service"
	"github.com/syl2042/contentmaestro/internal/profiles/wizard"
)

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, wizard.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, wizard.ErrSessionClosed):
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func writeError(c *gin.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrNotFound):
		msg = "profile not found"
	case errors.Is(err, wizard.ErrSessionNotFound):
		msg = "wizard session not found"
	}
	c.JSON(statusFor(err), gin.H{"ok": false, "error": msg})
}

// writeWizardFailure reports a failed step with the session as it stands so
// the client can show the message without losing the draft.
func writeWizardFailure(c *gin.Context, s *wizard.Session, err error) {
	if s == nil {
		writeError(c, err)
		return
	}
	status := http.StatusUnprocessableEntity
	if errors.Is(err, wizard.ErrSessionClosed) {
		status = http.StatusConflict
	}
	msg := s.Error
	if msg == "" {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"ok": false, "error": msg, "session": toSessionView(s)})
}
