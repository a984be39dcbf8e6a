package auth

import (
	"context"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/syl2042/contentmaestro/internal/logging"
	"github.com/syl2042/contentmaestro/internal/users"
)

type UserEnsurer interface {
	EnsureUser(ctx context.Context, id, prenom string) error
}

// WithUser records the authenticated user in the users table so the
// dashboard can greet them. A user is written again only when the name it
// presents changes.
func WithUser(repo UserEnsurer, log zerolog.Logger) gin.HandlerFunc {
	var seen sync.Map

	return func(c *gin.Context) {
		uid := UserID(c)
		if uid == "" {
			c.Next()
			return
		}

		prenom := users.FirstWord(UserName(c))
		if last, ok := seen.Load(uid); ok && last.(string) == prenom {
			c.Next()
			return
		}

		if err := repo.EnsureUser(c.Request.Context(), uid, prenom); err != nil {
			l := logging.Ctx(c.Request.Context(), log)
			l.Error().Err(err).Str("user_id", uid).Msg("ensure user failed")
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			c.Abort()
			return
		}
		seen.Store(uid, prenom)

		c.Next()
	}
}
