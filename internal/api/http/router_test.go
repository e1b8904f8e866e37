package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	authmw "github.com/mind-engage/cetscore/internal/auth/middleware"
	"github.com/mind-engage/cetscore/internal/score"
	"github.com/mind-engage/cetscore/internal/session"
)

type testEnv struct {
	srv  *httptest.Server
	svc  *session.Service
	auth *authmw.AuthService
}

func newTestEnv(t *testing.T, mutate ...func(*Deps)) *testEnv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)

	svc := session.NewService(session.NewMemoryStore(), time.Hour)
	a := authmw.NewAuthService("test-secret", time.Hour)
	d := Deps{
		Sessions:      svc,
		Auth:          a,
		AdminUser:     "admin",
		AdminPassHash: string(hash),
		CORSOrigins:   []string{"http://localhost:3000"},
	}
	for _, m := range mutate {
		m(&d)
	}
	srv := httptest.NewServer(NewRouter(d))
	t.Cleanup(srv.Close)
	return &testEnv{srv: srv, svc: svc, auth: a}
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (e *testEnv) guestToken(t *testing.T) (string, string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/auth/guest", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		AccessToken string `json:"access_token"`
		SessionID   string `json:"session_id"`
	}](t, resp)
	return out.AccessToken, out.SessionID
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/healthz", "", "").StatusCode)
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/readyz", "", "").StatusCode)
}

func TestCalculateEndpoint(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodPost, "/calculate", "",
		`{"tier":"CET4","listening_difficulty":"Hard","listening_raw":20,"reading_raw":"15","writing_raw":10}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decode[score.Report](t, resp)
	assert.Equal(t, score.Result{Listening: 174, Reading: 143, Writing: 116, Total: 433}, rep.Result)
	assert.Equal(t, score.LevelPassed, rep.Feedback.Level)
	assert.Equal(t, 425, rep.PassingScore)
	assert.Equal(t, score.Medium, rep.Selection.ReadingDifficulty)
}

func TestCalculateClampsInsteadOfRejecting(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodPost, "/calculate", "",
		`{"tier":"cet6","listening_raw":-5,"reading_raw":999,"writing_raw":"abc"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rep := decode[score.Report](t, resp)
	assert.Equal(t, 0, rep.Selection.ListeningRaw)
	assert.Equal(t, 35, rep.Selection.ReadingRaw)
	assert.Equal(t, 0, rep.Selection.WritingRaw)
	assert.Equal(t, score.CET6, rep.Selection.Tier)
	assert.Equal(t, 249, rep.Result.Reading)
}

func TestCalculateValidation(t *testing.T) {
	e := newTestEnv(t)
	for _, body := range []string{
		`{}`,
		`{"tier":"CET5"}`,
		`{"tier":"CET4","reading_difficulty":"Brutal"}`,
		`not json`,
	} {
		resp := e.do(t, http.MethodPost, "/calculate", "", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestFeedbackEndpoint(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/feedback?total=599", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		Feedback score.Band `json:"feedback"`
	}](t, resp)
	assert.Equal(t, score.LevelExcellent, out.Feedback.Level)

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/feedback?total=x", "", "").StatusCode)
}

func TestTablesEndpoint(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/tables", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decode[tablesDoc](t, resp)
	require.Len(t, doc.Tiers, 2)
	assert.Equal(t, 425, doc.PassingScore)
	listening := doc.Tiers[0].Sections[0]
	assert.Equal(t, score.Listening, listening.Section)
	assert.Len(t, listening.Curves[score.Medium], 36)
	writing := doc.Tiers[1].Sections[2]
	assert.Equal(t, 32, writing.Curve[0])
	assert.Nil(t, writing.Curves)

	resp = e.do(t, http.MethodGet, "/tables?format=yaml", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/yaml", resp.Header.Get("Content-Type"))
	var y tablesDoc
	require.NoError(t, yaml.NewDecoder(resp.Body).Decode(&y))
	assert.Equal(t, doc.Tiers[0].Sections[2].Curve, y.Tiers[0].Sections[2].Curve)
}

func TestSectionEndpoint(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/tables/cet4/listening?difficulty=hard", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		Curve []int `json:"curve"`
	}](t, resp)
	assert.Equal(t, 174, out.Curve[20])

	resp = e.do(t, http.MethodGet, "/tables/CET4/writing?difficulty=Hard", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 116, decode[struct {
		Curve []int `json:"curve"`
	}](t, resp).Curve[10])

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/tables/CET8/listening", "", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/tables/CET4/speaking", "", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/tables/CET4/reading?difficulty=x", "", "").StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	e := newTestEnv(t)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/session", "", "").StatusCode)

	tok, id := e.guestToken(t)

	resp := e.do(t, http.MethodGet, "/session", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[sessionOut](t, resp)
	assert.Equal(t, id, out.Session.ID)
	assert.Equal(t, score.NewSelection(), out.Session.Selection)

	// the re-issued token is bound to the same session
	require.NotEmpty(t, out.AccessToken)
	claims, err := e.auth.Parse(out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, claims.Sub)
	assert.Equal(t, authmw.RoleGuest, claims.Role)
	tok = out.AccessToken

	resp = e.do(t, http.MethodPatch, "/session", tok,
		`{"listening_difficulty":"Hard","listening_raw":20,"reading_raw":15,"writing_raw":"10"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v := decode[session.View](t, resp)
	assert.Equal(t, 433, v.Report.Result.Total)

	resp = e.do(t, http.MethodPatch, "/session", tok, `{"reading_difficulty":"Brutal"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, body := range []string{`{}`, `{"listening_raw":null}`} {
		resp = e.do(t, http.MethodPatch, "/session", tok, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}

	resp = e.do(t, http.MethodPost, "/session/reset", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	v = decode[session.View](t, resp)
	assert.Equal(t, score.NewSelection(), v.Session.Selection)

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/session", tok, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/session", tok, "").StatusCode)
}

func TestGuestCannotUseAdminRoutes(t *testing.T) {
	e := newTestEnv(t)
	tok, _ := e.guestToken(t)
	assert.Equal(t, http.StatusForbidden, e.do(t, http.MethodGet, "/admin/sessions", tok, "").StatusCode)
}

func TestAdminSessions(t *testing.T) {
	e := newTestEnv(t)
	guest, id := e.guestToken(t)
	e.do(t, http.MethodPatch, "/session", guest, `{"tier":"CET6","writing_raw":30}`)
	e.guestToken(t)

	resp := e.do(t, http.MethodPost, "/auth/admin", "", `{"username":"admin","password":"letmein"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	admin := decode[struct {
		AccessToken string `json:"access_token"`
	}](t, resp).AccessToken

	// admin tokens are not bound to a scoring session
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/session", admin, "").StatusCode)

	resp = e.do(t, http.MethodGet, "/admin/sessions", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]sessionSummary](t, resp), 2)

	resp = e.do(t, http.MethodGet, "/admin/sessions?tier=CET6", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[[]sessionSummary](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
	assert.Equal(t, 45+45+212, list[0].Total)

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/admin/sessions?tier=x", admin, "").StatusCode)
	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/admin/sessions/"+id, admin, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodDelete, "/admin/sessions/"+id, admin, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/session", guest, "").StatusCode)
}

func TestRateLimit(t *testing.T) {
	e := newTestEnv(t, func(d *Deps) {
		d.RateLimitRPS = 0.001
		d.RateLimitBurst = 2
	})
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/feedback", "", "").StatusCode)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/feedback", "", "").StatusCode)
	resp := e.do(t, http.MethodGet, "/feedback", "", "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	// the bucket is shared with the session routes and spoofed headers do not reset it
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+"/session", nil)
	require.NoError(t, err)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// health checks are not limited
	assert.Equal(t, http.StatusOK, e.do(t, http.MethodGet, "/healthz", "", "").StatusCode)
}

func TestRateLimitBehindTrustedProxy(t *testing.T) {
	e := newTestEnv(t, func(d *Deps) {
		d.RateLimitRPS = 0.001
		d.RateLimitBurst = 1
		d.TrustProxy = true
	})
	get := func(ip string) int {
		req, err := http.NewRequest(http.MethodGet, e.srv.URL+"/feedback?total=1", nil)
		require.NoError(t, err)
		req.Header.Set("X-Forwarded-For", ip)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp.StatusCode
	}
	assert.Equal(t, http.StatusOK, get("203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("203.0.113.1"))
	assert.Equal(t, http.StatusOK, get("203.0.113.2"))
}

func TestSessionStream(t *testing.T) {
	e := newTestEnv(t)
	tok, id := e.guestToken(t)

	url := "ws" + strings.TrimPrefix(e.srv.URL, "http") + "/session/ws?access_token=" + tok
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	var msg StreamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "state", msg.Type)
	assert.Equal(t, id, msg.State.Session.ID)
	assert.Equal(t, 235, msg.State.Report.Result.Total)

	require.NoError(t, conn.WriteJSON(map[string]any{"listening_difficulty": "Hard", "listening_raw": 20}))
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "state", msg.Type)
	assert.Equal(t, 174, msg.State.Report.Result.Listening)

	require.NoError(t, conn.WriteJSON(map[string]any{"tier": "CET9"}))
	msg = StreamMessage{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "error", msg.Type)
	assert.NotEmpty(t, msg.Error)

	// wrong JSON types and non-JSON frames get an error frame, the stream stays up
	for _, frame := range []string{`{"tier":5}`, `not json`} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
		msg = StreamMessage{}
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, "error", msg.Type, frame)
		assert.NotEmpty(t, msg.Error)
	}

	require.NoError(t, conn.WriteJSON(map[string]any{"reset": true}))
	msg = StreamMessage{}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, score.NewSelection(), msg.State.Session.Selection)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})
	req := httptest.NewRequest(http.MethodGet, "http://api.local/session/ws", nil)
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, check(req))

	req.Header.Set("Origin", "http://api.local")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(req))
}
