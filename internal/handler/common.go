package handler // handler implements the role-scoped HTTP endpoints

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/academic-records/internal/model"
	"github.com/iliyamo/academic-records/internal/repository"
)

// dbTimeout bounds repository calls issued from handlers.
const dbTimeout = 5 * time.Second

// Stores consumed by the handlers.  The MySQL repositories in
// internal/repository satisfy them; tests substitute in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	ListFacultyWithCourses(ctx context.Context) ([]repository.FacultyDirectoryEntry, error)
}

type CourseStore interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id uint64) (model.Course, error)
	GetByIDAndOwner(ctx context.Context, id, facultyID uint64) (model.Course, error)
	ListByFaculty(ctx context.Context, facultyID uint64) ([]model.Course, error)
	ListAll(ctx context.Context) ([]model.Course, error)
}

type EnrollmentStore interface {
	Enroll(ctx context.Context, studentID, courseID uint64) error
	IsEnrolled(ctx context.Context, studentID, courseID uint64) (bool, error)
	EnrolledCourseIDs(ctx context.Context, studentID uint64) (map[uint64]bool, error)
	Transcript(ctx context.Context, studentID uint64) ([]repository.TranscriptRow, error)
}

type GradeStore interface {
	Upsert(ctx context.Context, studentID, courseID uint64, marks float64, letter string) error
	Roster(ctx context.Context, courseID uint64) ([]repository.RosterRow, error)
}

// getUserID extracts the user_id stored by the session middleware.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// sessionName returns the display name stored by the session middleware.
func sessionName(c echo.Context) string {
	if s, ok := c.Get("name").(string); ok {
		return s
	}
	return ""
}

// formatMarks renders a marks value without trailing zeros, so 95
// serializes as "95" and 87.5 as "87.5".
func formatMarks(m float64) string {
	return strconv.FormatFloat(m, 'f', -1, 64)
}

// flashCookie carries a one-shot message across the redirect that
// follows a form submission.
const flashCookie = "flash"

// setFlash stores a message to be shown by the next page load.
func setFlash(c echo.Context, msg string) {
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
	})
}

// popFlash returns the pending flash message, if any, and clears it.
func popFlash(c echo.Context) string {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return ""
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	msg, err := url.QueryUnescape(ck.Value)
	if err != nil {
		return ""
	}
	return msg
}

// flashAndRedirect is the standard answer to a form submission: set the
// message and send the browser back to a page that will display it.
func flashAndRedirect(c echo.Context, msg, target string) error {
	setFlash(c, msg)
	return c.Redirect(http.StatusSeeOther, target)
}
