package handler

import (
	"context"
	"crypto/subtle"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/academic-records/internal/config"
	"github.com/iliyamo/academic-records/internal/middleware"
	"github.com/iliyamo/academic-records/internal/model"
	"github.com/iliyamo/academic-records/internal/utils"
)

// AuthHandler bundles dependencies for the login endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// loginReq is bound from the login form.  user_type selects which of
// the three authentication branches runs.
type loginReq struct {
	UserType string `form:"user_type" json:"user_type"` // admin | faculty | student
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	Next     string `form:"next" json:"next"`
}

// LoginForm handles GET /login/.  Rendering is the client's concern;
// the endpoint returns the role choices and any pending flash message.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"roles": []string{"admin", "faculty", "student"},
		"flash": popFlash(c),
	})
}

// Login handles POST /login/ and branches on the submitted role.
// Every failure inside a branch redirects back to the login page with
// the same generic message, so a caller cannot distinguish a missing
// account from a wrong password or a role mismatch.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	userType := strings.ToLower(strings.TrimSpace(req.UserType))

	switch userType {
	case "admin":
		// The administrator is a configured identity, not a stored
		// user.  Both comparisons run in constant time.
		emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(strings.ToLower(h.Cfg.AdminEmail)))
		passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.Cfg.AdminPassword))
		if emailOK&passOK != 1 {
			return flashAndRedirect(c, "Invalid credentials.", "/login/")
		}
		return h.startSession(c, 0, model.RoleAdmin, "Administrator", req.Next, "/admin-panel/")

	case "faculty", "student":
		want, landing := model.RoleFaculty, "/faculty-profile/"
		if userType == "student" {
			want, landing = model.RoleStudent, "/student/profile/"
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
		defer cancel()

		u, err := h.Users.GetByEmail(ctx, req.Email)
		if err != nil {
			if err == sql.ErrNoRows {
				return flashAndRedirect(c, "Invalid credentials.", "/login/")
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if !utils.VerifyPassword(u.PasswordHash, req.Password) || u.Role != want || !u.IsActive {
			return flashAndRedirect(c, "Invalid credentials.", "/login/")
		}
		return h.startSession(c, u.ID, u.Role, u.Name, req.Next, landing)

	default:
		return flashAndRedirect(c, "Invalid role selected.", "/login/")
	}
}

// startSession issues the session cookie and redirects to the actor's
// landing page, or to the original target when a same-site `next` was
// carried through the login form.
func (h *AuthHandler) startSession(c echo.Context, userID uint64, role, name, next, landing string) error {
	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, userID, role, name, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Value,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	if next != "" && strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		landing = next
	}
	return c.Redirect(http.StatusSeeOther, landing)
}

// Logout handles POST /logout/ by clearing the session cookie.  There
// is no server-side session state to revoke.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	return c.Redirect(http.StatusSeeOther, "/login/")
}
