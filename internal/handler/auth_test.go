package handler

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/academic-records/internal/model"
	"github.com/iliyamo/academic-records/internal/utils"
)

func TestLoginAdminSuccess(t *testing.T) {
	cfg := testConfig()
	h := NewAuthHandler(cfg, fakeUsers{newMemStore()})

	c, rec := postForm("/login/", url.Values{
		"user_type": {"admin"},
		"email":     {"Admin@Example.com"},
		"password":  {"letmein"},
	})
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin-panel/", rec.Header().Get(echo.HeaderLocation))

	ck := sessionCookieFrom(rec)
	require.NotNil(t, ck, "expected a session cookie")
	claims, err := utils.ParseSessionToken(cfg.JWTSecret, ck.Value)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, uint64(0), claims.UserID)
	assert.True(t, ck.HttpOnly)
}

func TestLoginAdminBadCredentials(t *testing.T) {
	h := NewAuthHandler(testConfig(), fakeUsers{newMemStore()})

	c, rec := postForm("/login/", url.Values{
		"user_type": {"admin"},
		"email":     {"admin@example.com"},
		"password":  {"wrong"},
	})
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login/", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, "Invalid credentials.", flashFrom(rec))
	assert.Nil(t, sessionCookieFrom(rec))
}

func TestLoginFacultySuccess(t *testing.T) {
	cfg := testConfig()
	store := newMemStore()
	users := fakeUsers{store}
	_, err := users.Create(context.Background(), "Grace", "grace@uni.edu", "hopper", model.RoleFaculty, cfg.BcryptCost)
	require.NoError(t, err)

	h := NewAuthHandler(cfg, users)
	c, rec := postForm("/login/", url.Values{
		"user_type": {"faculty"},
		"email":     {"GRACE@uni.edu"},
		"password":  {"hopper"},
	})
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/faculty-profile/", rec.Header().Get(echo.HeaderLocation))

	ck := sessionCookieFrom(rec)
	require.NotNil(t, ck)
	claims, err := utils.ParseSessionToken(cfg.JWTSecret, ck.Value)
	require.NoError(t, err)
	assert.Equal(t, model.RoleFaculty, claims.Role)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.Equal(t, "Grace", claims.Name)
}

func TestLoginStudentSuccess(t *testing.T) {
	cfg := testConfig()
	store := newMemStore()
	users := fakeUsers{store}
	_, err := users.Create(context.Background(), "Ada", "ada@uni.edu", "lovelace", model.RoleStudent, cfg.BcryptCost)
	require.NoError(t, err)

	h := NewAuthHandler(cfg, users)
	c, rec := postForm("/login/", url.Values{
		"user_type": {"student"},
		"email":     {"ada@uni.edu"},
		"password":  {"lovelace"},
	})
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/student/profile/", rec.Header().Get(echo.HeaderLocation))
}

// Every failure mode of a stored-role login answers identically, so a
// caller probing the login form cannot tell accounts apart.
func TestLoginFailuresIndistinguishable(t *testing.T) {
	cfg := testConfig()
	store := newMemStore()
	users := fakeUsers{store}
	_, err := users.Create(context.Background(), "Grace", "grace@uni.edu", "hopper", model.RoleFaculty, cfg.BcryptCost)
	require.NoError(t, err)
	_, err = users.Create(context.Background(), "Dora", "dora@uni.edu", "explorer", model.RoleStudent, cfg.BcryptCost)
	require.NoError(t, err)
	store.users[1].IsActive = false

	h := NewAuthHandler(cfg, users)

	cases := []struct {
		name string
		form url.Values
	}{
		{"unknown email", url.Values{"user_type": {"faculty"}, "email": {"nobody@uni.edu"}, "password": {"x"}}},
		{"wrong password", url.Values{"user_type": {"faculty"}, "email": {"grace@uni.edu"}, "password": {"x"}}},
		{"role mismatch", url.Values{"user_type": {"student"}, "email": {"grace@uni.edu"}, "password": {"hopper"}}},
		{"inactive account", url.Values{"user_type": {"student"}, "email": {"dora@uni.edu"}, "password": {"explorer"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postForm("/login/", tc.form)
			require.NoError(t, h.Login(c))
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login/", rec.Header().Get(echo.HeaderLocation))
			assert.Equal(t, "Invalid credentials.", flashFrom(rec))
			assert.Nil(t, sessionCookieFrom(rec))
		})
	}
}

func TestLoginUnknownRole(t *testing.T) {
	h := NewAuthHandler(testConfig(), fakeUsers{newMemStore()})

	c, rec := postForm("/login/", url.Values{
		"user_type": {"registrar"},
		"email":     {"x@uni.edu"},
		"password":  {"x"},
	})
	require.NoError(t, h.Login(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "Invalid role selected.", flashFrom(rec))
}

func TestLoginHonorsSameSiteNext(t *testing.T) {
	h := NewAuthHandler(testConfig(), fakeUsers{newMemStore()})

	c, rec := postForm("/login/", url.Values{
		"user_type": {"admin"},
		"email":     {"admin@example.com"},
		"password":  {"letmein"},
		"next":      {"/add-user/"},
	})
	require.NoError(t, h.Login(c))
	assert.Equal(t, "/add-user/", rec.Header().Get(echo.HeaderLocation))

	// Protocol-relative targets are treated as off-site and ignored.
	c, rec = postForm("/login/", url.Values{
		"user_type": {"admin"},
		"email":     {"admin@example.com"},
		"password":  {"letmein"},
		"next":      {"//evil.example/phish"},
	})
	require.NoError(t, h.Login(c))
	assert.Equal(t, "/admin-panel/", rec.Header().Get(echo.HeaderLocation))
}

func TestLogoutClearsSession(t *testing.T) {
	h := NewAuthHandler(testConfig(), fakeUsers{newMemStore()})

	c, rec := postForm("/logout/", url.Values{})
	require.NoError(t, h.Logout(c))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login/", rec.Header().Get(echo.HeaderLocation))
	ck := sessionCookieFrom(rec)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Equal(t, -1, ck.MaxAge)
}
