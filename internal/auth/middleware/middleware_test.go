package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/cetscore/internal/rbac"
)

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("k", time.Hour)
	tok, err := a.IssueJWT("sess-1", RoleGuest)
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", c.Sub)
	assert.Equal(t, RoleGuest, c.Role)

	_, err = NewAuthService("other", time.Hour).Parse(tok)
	assert.Error(t, err)
}

func TestParseRejectsExpiredAndForeignAlg(t *testing.T) {
	a := NewAuthService("k", time.Hour)
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Sub: "x", Role: RoleGuest,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "cetscore",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	s, err := expired.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = a.Parse(s)
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Sub: "x", Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "cetscore"}})
	s, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = a.Parse(s)
	assert.Error(t, err)
}

func TestJWTMiddlewareSetsContext(t *testing.T) {
	a := NewAuthService("k", time.Hour)
	tok, err := a.IssueJWT("sess-9", RoleGuest)
	require.NoError(t, err)

	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sess-9", gotSub)
	assert.Equal(t, RoleGuest, gotRole)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// query token only counts for websocket upgrades
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/session?access_token="+tok, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/session/ws?access_token="+tok, nil)
	req.Header.Set("Upgrade", "websocket")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionIDOnlyForGuests(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", SessionIDFromContext(ctx))
	assert.Equal(t, "", SubjectFromContext(ctx))

	guest := WithClaims(ctx, &Claims{Sub: "sess-1", Role: RoleGuest})
	assert.Equal(t, "sess-1", SessionIDFromContext(guest))

	admin := WithClaims(ctx, &Claims{Sub: "root", Role: RoleAdmin})
	assert.Equal(t, "", SessionIDFromContext(admin))
	assert.Equal(t, "root", SubjectFromContext(admin))
}
