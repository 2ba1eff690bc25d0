package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/playperu/flightgame/internal/session"
)

const sessionCookieName = "fg_session"

type ctxKey int

const (
	ctxKeySessionID ctxKey = iota
	ctxKeyController
)

// sessionMiddleware resolves the browser's session cookie to a controller,
// issuing a fresh session ID when the cookie is missing or malformed.
func sessionMiddleware(sessions *Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			if c, err := r.Cookie(sessionCookieName); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), ctxKeySessionID, id)
			ctx = context.WithValue(ctx, ctxKeyController, sessions.Get(id))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionID(r *http.Request) string {
	return r.Context().Value(ctxKeySessionID).(string)
}

func controller(r *http.Request) *session.Controller {
	return r.Context().Value(ctxKeyController).(*session.Controller)
}
