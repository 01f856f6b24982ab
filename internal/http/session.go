package http

import (
	"net/http"

	"expensetracker/internal/log"
	"expensetracker/internal/session"
)

// SessionCookieName identifies the browser session. It carries no expiry, so
// the browser drops it when the session ends.
const SessionCookieName = "expense_session"

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *session.Session)

// withSession resolves the caller's session, opening a new one (and setting
// the cookie) when the cookie is missing or the session has expired.
func (s *Server) withSession(next sessionHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var id string
		if c, err := r.Cookie(SessionCookieName); err == nil {
			id = c.Value
		}

		sess, created := s.sessions.Resolve(id)
		if created {
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookieName,
				Value:    sess.ID(),
				Path:     "/",
				HttpOnly: true,
				Secure:   s.secure || r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := log.NewContext(r.Context(), log.FromContextOr(r.Context(), s.logger).With(log.FieldSessionID, sess.ID()))
		next(w, r.WithContext(ctx), sess)
	})
}
