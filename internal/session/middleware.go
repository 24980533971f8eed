package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/01moynul/mayaj-store/internal/logger"
)

const contextKey = "session"

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// Middleware loads the visitor's session before the handler runs and writes it back
// afterwards when it changed. Unknown or malformed cookies start a fresh session.
func Middleware(store Store, opts CookieOptions, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var s *Session
		if id, err := c.Cookie(opts.Name); err == nil {
			if _, perr := uuid.Parse(id); perr == nil {
				data, err := store.Load(ctx, id)
				switch {
				case err == nil:
					s = &Session{ID: id, data: data}
				case !errors.Is(err, ErrNotFound):
					log.Warn("session load failed, starting a new one", "error", err)
				}
			}
		}
		if s == nil {
			s = &Session{ID: uuid.NewString(), data: newData()}
		}
		c.Set(contextKey, s)

		// The cookie has to go out with the headers, before any handler writes a body.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.Name, s.ID, int(opts.MaxAge.Seconds()), "/", "", opts.Secure, true)

		c.Next()

		if !s.Modified() {
			return
		}
		if err := store.Save(ctx, s.ID, s.data); err != nil {
			log.Error("session save failed", "error", err, "path", c.Request.URL.Path)
		}
	}
}

// FromContext returns the request's session. Without the middleware it returns a
// throwaway session so callers never see nil.
func FromContext(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok {
			return s
		}
	}
	s := &Session{ID: uuid.NewString(), data: newData()}
	c.Set(contextKey, s)
	return s
}
