package handler

import (
	"context"
	"net/http"
	"sort"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/academic-records/internal/repository"
)

// StudentHandler bundles the stores behind the student-scoped
// endpoints: the course catalog, enrollment and the transcript.
type StudentHandler struct {
	Courses     CourseStore
	Enrollments EnrollmentStore
}

func NewStudentHandler(courses CourseStore, enrollments EnrollmentStore) *StudentHandler {
	if courses == nil || enrollments == nil {
		panic("nil store passed to NewStudentHandler")
	}
	return &StudentHandler{Courses: courses, Enrollments: enrollments}
}

// ungraded is reported for transcript rows that have an enrollment but
// no grade yet.  It is deliberately not zero: a recorded grade of zero
// marks must stay distinguishable from "not graded yet".
const ungraded = "ungraded"

// transcriptEntry is one row of the transcript view.
type transcriptEntry struct {
	CourseName string `json:"course_name"`
	Marks      string `json:"marks"`
	Letter     string `json:"letter_grade"`
}

// Profile handles GET /student/profile/: the transcript of the acting
// student, one row per enrollment.
func (h *StudentHandler) Profile(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, err := h.Enrollments.Transcript(ctx, studentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	entries := make([]transcriptEntry, 0, len(rows))
	for _, row := range rows {
		e := transcriptEntry{CourseName: row.CourseName, Marks: ungraded, Letter: ungraded}
		if row.Marks != nil {
			e.Marks = formatMarks(*row.Marks)
		}
		if row.Letter != nil {
			e.Letter = *row.Letter
		}
		entries = append(entries, e)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"name":       sessionName(c),
		"transcript": entries,
		"flash":      popFlash(c),
	})
}

// catalogEntry is one course in the student-facing catalog with the
// caller's enrollment state resolved.
type catalogEntry struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Enrolled    bool   `json:"enrolled"`
}

// AvailableCourses handles GET /available-courses/: every course plus
// the set of course ids the student is already enrolled in, so the
// client can render enrolled/unenrolled state without a join per row.
func (h *StudentHandler) AvailableCourses(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	courses, err := h.Courses.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	enrolled, err := h.Enrollments.EnrolledCourseIDs(ctx, studentID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	entries := make([]catalogEntry, 0, len(courses))
	enrolledIDs := make([]uint64, 0, len(enrolled))
	for _, course := range courses {
		entries = append(entries, catalogEntry{
			ID:          course.ID,
			Name:        course.Name,
			Description: course.Description,
			Enrolled:    enrolled[course.ID],
		})
	}
	for id := range enrolled {
		enrolledIDs = append(enrolledIDs, id)
	}
	sort.Slice(enrolledIDs, func(i, j int) bool { return enrolledIDs[i] < enrolledIDs[j] })

	return c.JSON(http.StatusOK, echo.Map{
		"courses":             entries,
		"enrolled_course_ids": enrolledIDs,
		"flash":               popFlash(c),
	})
}

// Enroll handles POST /enroll/:courseId/.  Enrolling twice in the same
// course is a successful no-op; only a course id that does not resolve
// is an error.
func (h *StudentHandler) Enroll(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courseID, err := strconv.ParseUint(c.Param("courseId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if _, err := h.Courses.GetByID(ctx, courseID); err != nil {
		if err == repository.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	if err := h.Enrollments.Enroll(ctx, studentID, courseID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not enroll"})
	}
	return flashAndRedirect(c, "Enrolled successfully.", "/available-courses/")
}
