package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magzhanmnazhatdin/courtclub/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHS256_RoundTrip(t *testing.T) {
	h, err := NewHS256("s3cret")
	require.NoError(t, err)

	tok, err := h.Issue("u1", "a@x.com", time.Minute)
	require.NoError(t, err)

	id, err := h.Verify(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, Identity{UID: "u1", Email: "a@x.com"}, id)
}

func TestHS256_Rejects(t *testing.T) {
	h, _ := NewHS256("s3cret")
	other, _ := NewHS256("other")

	forged, err := other.Issue("u1", "a@x.com", time.Minute)
	require.NoError(t, err)
	_, err = h.Verify(context.Background(), forged)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	expired, err := h.Issue("u1", "a@x.com", -time.Minute)
	require.NoError(t, err)
	_, err = h.Verify(context.Background(), expired)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	noEmail, err := h.Issue("u1", "", time.Minute)
	require.NoError(t, err)
	_, err = h.Verify(context.Background(), noEmail)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = NewHS256("")
	assert.Error(t, err)
}

type fakeIDTokens struct {
	tok *fbauth.Token
	err error
}

func (f fakeIDTokens) VerifyIDToken(context.Context, string) (*fbauth.Token, error) {
	return f.tok, f.err
}

func TestFirebase_Verify(t *testing.T) {
	f := &Firebase{client: fakeIDTokens{tok: &fbauth.Token{UID: "fb1", Claims: map[string]interface{}{"email": "a@x.com"}}}}
	id, err := f.Verify(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, Identity{UID: "fb1", Email: "a@x.com"}, id)

	f = &Firebase{client: fakeIDTokens{tok: &fbauth.Token{UID: "fb1", Claims: map[string]interface{}{}}}}
	_, err = f.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	f = &Firebase{client: fakeIDTokens{err: errors.New("expired")}}
	_, err = f.Verify(context.Background(), "tok")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

type roles map[string]domain.Role

func (r roles) UserRole(_ context.Context, email string) (domain.Role, error) {
	if email == "broken@x.com" {
		return "", errors.New("store down")
	}
	role, ok := r[email]
	if !ok {
		return "", domain.ErrUserNotFound
	}
	return role, nil
}

func newRouter(t *testing.T, required ...domain.Role) (*HS256, http.Handler) {
	t.Helper()
	h, err := NewHS256("s3cret")
	require.NoError(t, err)
	dir := roles{"admin@x.com": domain.RoleAdmin, "m@x.com": domain.RoleMember}

	r := gin.New()
	r.GET("/p", Middleware(h), RequireRole(dir, required...), func(c *gin.Context) {
		id, _ := IdentityFrom(c)
		c.JSON(http.StatusOK, gin.H{"email": id.Email, "role": RoleFrom(c)})
	})
	return h, r
}

func doGet(r http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	h, r := newRouter(t)
	tok, _ := h.Issue("u", "m@x.com", time.Minute)

	assert.Equal(t, http.StatusUnauthorized, doGet(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doGet(r, tok).Code, "missing Bearer prefix")
	assert.Equal(t, http.StatusUnauthorized, doGet(r, "Bearer garbage").Code)

	w := doGet(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"m@x.com","role":"member"}`, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	h, r := newRouter(t, domain.RoleAdmin)
	bearer := func(email string) string {
		tok, _ := h.Issue("u", email, time.Minute)
		return "Bearer " + tok
	}

	assert.Equal(t, http.StatusOK, doGet(r, bearer("admin@x.com")).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, bearer("m@x.com")).Code)
	assert.Equal(t, http.StatusForbidden, doGet(r, bearer("nobody@x.com")).Code)
	assert.Equal(t, http.StatusInternalServerError, doGet(r, bearer("broken@x.com")).Code)
}

func TestRequireRole_UnknownUserDefaultsToUser(t *testing.T) {
	h, r := newRouter(t)
	tok, _ := h.Issue("u", "nobody@x.com", time.Minute)

	w := doGet(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"email":"nobody@x.com","role":"user"}`, w.Body.String())
}
