package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/PranayChowdhury00/event-management-task-ph-Backend/models"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/session"
)

const (
	ctxUserKey      = "currentUser"
	ctxSessionIDKey = "sessionID"
)

// SessionStore is the part of the session store the middleware needs.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.SessionUser, error)
	Set(ctx context.Context, id string, user models.SessionUser) error
	Delete(ctx context.Context, id string) error
}

// Sessions resolves the session cookie on every request and issues or
// destroys sessions on behalf of the auth handlers.
type Sessions struct {
	Store  SessionStore
	Secret string
	Secure bool // production: Secure cookie with SameSite=None
	Logger zerolog.Logger
}

// Resolve loads the session referenced by the request cookie, if any, and
// exposes the payload to handlers. Requests without a valid live session
// simply proceed unauthenticated.
func (s *Sessions) Resolve() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, err := c.Cookie(session.CookieName)
		if err != nil {
			c.Next()
			return
		}
		id, ok := session.ParseCookie(s.Secret, value)
		if !ok {
			c.Next()
			return
		}

		user, err := s.Store.Get(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				s.Logger.Warn().Err(err).Msg("session lookup failed")
			}
			c.Next()
			return
		}

		c.Set(ctxSessionIDKey, id)
		c.Set(ctxUserKey, *user)
		c.Next()
	}
}

// Issue creates a session for user and sets the signed cookie.
func (s *Sessions) Issue(c *gin.Context, user models.SessionUser) error {
	id := session.NewID()
	if err := s.Store.Set(c.Request.Context(), id, user); err != nil {
		return err
	}
	s.setCookie(c, session.SignCookie(s.Secret, id), int(session.TTL.Seconds()))
	return nil
}

// Destroy deletes the current session record and clears the cookie. The
// cookie is cleared only when the store delete went through, matching the
// original logout behavior.
func (s *Sessions) Destroy(c *gin.Context) error {
	if id, ok := c.Get(ctxSessionIDKey); ok {
		if err := s.Store.Delete(c.Request.Context(), id.(string)); err != nil {
			return err
		}
	}
	s.setCookie(c, "", -1)
	return nil
}

func (s *Sessions) setCookie(c *gin.Context, value string, maxAge int) {
	if s.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(session.CookieName, value, maxAge, "/", "", s.Secure, true)
}

// CurrentUser returns the session payload for the request, if authenticated.
func CurrentUser(c *gin.Context) (models.SessionUser, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return models.SessionUser{}, false
	}
	user, ok := v.(models.SessionUser)
	return user, ok
}

// RequireAuth aborts with 401 when the request carries no live session.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authenticated"})
			c.Abort()
			return
		}
		c.Next()
	}
}
