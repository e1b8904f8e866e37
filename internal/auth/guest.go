package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	authmw "github.com/mind-engage/cetscore/internal/auth/middleware"
	"github.com/mind-engage/cetscore/internal/session"
)

const SessionCookie = "cet_session"

type tokenOut struct {
	AccessToken string        `json:"access_token"`
	SessionID   string        `json:"session_id,omitempty"`
	ExpiresAt   int64         `json:"expires_at,omitempty"`
	View        *session.View `json:"state,omitempty"`
}

// GuestLoginHandler starts a scoring session, or picks up the one named by
// the session cookie while it is still alive, and returns a token bound to it.
func GuestLoginHandler(a *authmw.AuthService, svc *session.Service, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var (
			v   session.View
			err error
		)
		if c, cerr := r.Cookie(SessionCookie); cerr == nil && c.Value != "" {
			v, err = svc.Load(ctx, c.Value)
		} else {
			err = session.ErrNotFound
		}
		if errors.Is(err, session.ErrNotFound) {
			v, err = svc.Start(ctx)
		}
		if err != nil {
			slog.Error("guest session", "error", err)
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}

		tok, err := a.IssueJWT(v.Session.ID, authmw.RoleGuest)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    v.Session.ID,
			Path:     "/",
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Unix(v.Session.ExpiresAt, 0),
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(tokenOut{
			AccessToken: tok,
			SessionID:   v.Session.ID,
			ExpiresAt:   v.Session.ExpiresAt,
			View:        &v,
		})
	}
}
