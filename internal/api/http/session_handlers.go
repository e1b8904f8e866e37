package http

import (
	"encoding/json"
	"net/http"

	authmw "github.com/mind-engage/cetscore/internal/auth/middleware"
	"github.com/mind-engage/cetscore/internal/session"
)

// Session routes act on the session named by the token subject.

// sessionOut is a View plus a token re-issued against the session's
// extended expiry, so a client that keeps polling never outlives its token.
type sessionOut struct {
	session.View
	AccessToken string `json:"access_token"`
}

func GetSessionHandler(svc *session.Service, a *authmw.AuthService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Load(r.Context(), authmw.SessionIDFromContext(r.Context()))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		tok, err := a.IssueJWT(v.Session.ID, authmw.RoleGuest)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionOut{View: v, AccessToken: tok})
	}
}

// PATCH /session  {"listening_raw": "20", "listening_difficulty": "Hard", ...}
func PatchSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p session.Patch
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if p.Empty() {
			http.Error(w, "empty patch", http.StatusBadRequest)
			return
		}
		v, err := svc.Update(r.Context(), authmw.SessionIDFromContext(r.Context()), p)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func ResetSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Reset(r.Context(), authmw.SessionIDFromContext(r.Context()))
		if err != nil {
			writeErr(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func EndSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.End(r.Context(), authmw.SessionIDFromContext(r.Context())); err != nil {
			writeErr(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
