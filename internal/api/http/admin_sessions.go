package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/cetscore/internal/auth/middleware"
	"github.com/mind-engage/cetscore/internal/score"
	"github.com/mind-engage/cetscore/internal/session"
)

type sessionSummary struct {
	session.Session
	Total int `json:"total"`
}

// GET /admin/sessions?tier=CET6&limit=50&offset=0
func ListSessionsHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := session.ListOpts{
			Limit:  parseIntDefault(r.URL.Query().Get("limit"), 50),
			Offset: parseIntDefault(r.URL.Query().Get("offset"), 0),
		}
		if t := strings.TrimSpace(r.URL.Query().Get("tier")); t != "" {
			tier, err := score.ParseTier(t)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			opts.Tier = tier
		}
		list, err := svc.List(r.Context(), opts)
		if err != nil {
			writeErr(w, r, err)
			return
		}
		out := make([]sessionSummary, 0, len(list))
		for _, s := range list {
			out = append(out, sessionSummary{Session: s, Total: score.Calculate(s.Selection, nil).Total})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// DELETE /admin/sessions/{sessionID}
func DeleteSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "sessionID")
		if err := svc.End(r.Context(), id); err != nil {
			writeErr(w, r, err)
			return
		}
		slog.InfoContext(r.Context(), "session ended by admin",
			"session_id", id, "admin", authmw.SubjectFromContext(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}
}
