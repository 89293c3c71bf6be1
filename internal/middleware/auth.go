package middleware

import (
	"net/http"

	"github.com/chornado/internal/auth"
	"github.com/chornado/internal/store"
)

const sessionCookieName = "chornado_session"

// RequireAuth validates the session cookie and puts the resolved Actor on
// the request context. Unauthenticated requests are sent to the login page.
func RequireAuth(sessionStore *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			actor := auth.Actor{
				Role:      sess.Role,
				UserID:    sess.UserID,
				SessionID: sess.ID,
			}

			ctx := auth.WithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireParent refuses child sessions. Children poking at parent pages are
// sent to their own home rather than told the page exists.
func RequireParent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsParent(r.Context()) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireChild refuses parent sessions on child pages.
func RequireChild(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsChild(r.Context()) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
