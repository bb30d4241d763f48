package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/academic-records/internal/config"
	"github.com/iliyamo/academic-records/internal/model"
	"github.com/iliyamo/academic-records/internal/repository"
)

// AdminHandler serves the administrator panel endpoints.
type AdminHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAdminHandler(cfg config.Config, users UserStore) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users}
}

// AdminPanel handles GET /admin-panel/: every faculty member with the
// courses they teach, in creation order.
func (h *AdminHandler) AdminPanel(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	entries, err := h.Users.ListFacultyWithCourses(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"faculty": entries, "flash": popFlash(c)})
}

type addUserReq struct {
	Name     string `form:"name" json:"name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
	UserType string `form:"user_type" json:"user_type"` // faculty | student
}

// AddUser handles POST /add-user/.  All failures flash a message and
// send the admin back to the panel.
func (h *AdminHandler) AddUser(c echo.Context) error {
	var req addUserReq
	if err := c.Bind(&req); err != nil {
		return flashAndRedirect(c, "Invalid form submission.", "/admin-panel/")
	}
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	userType := strings.ToLower(strings.TrimSpace(req.UserType))
	if name == "" || email == "" || req.Password == "" || userType == "" {
		return flashAndRedirect(c, "All fields are required.", "/admin-panel/")
	}

	var role string
	switch userType {
	case "faculty":
		role = model.RoleFaculty
	case "student":
		role = model.RoleStudent
	default:
		return flashAndRedirect(c, "Invalid user type.", "/admin-panel/")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Users.Create(ctx, name, email, req.Password, role, h.Cfg.BcryptCost); err != nil {
		if err == repository.ErrEmailExists {
			return flashAndRedirect(c, "User with this email already exists.", "/admin-panel/")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	// "Faculty added successfully." / "Student added successfully."
	msg := strings.ToUpper(userType[:1]) + userType[1:] + " added successfully."
	return flashAndRedirect(c, msg, "/admin-panel/")
}

// RedirectToPanel handles GET /add-user/, which has no page of its own.
func (h *AdminHandler) RedirectToPanel(c echo.Context) error {
	return c.Redirect(http.StatusSeeOther, "/admin-panel/")
}
