package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/academic-records/internal/model"
	"github.com/iliyamo/academic-records/internal/queue"
	"github.com/iliyamo/academic-records/internal/repository"
	queuepublisher "github.com/iliyamo/academic-records/internal/service"
)

// FacultyHandler bundles the stores behind the faculty-scoped
// endpoints: course management, rosters and grading.
type FacultyHandler struct {
	Courses     CourseStore
	Enrollments EnrollmentStore
	Grades      GradeStore

	// PublishGradeEvent emits the audit event after a grade write.  It
	// is a field so tests can capture events without a broker.
	PublishGradeEvent func(ctx context.Context, evt queue.GradeRecordedEvent) error
}

func NewFacultyHandler(courses CourseStore, enrollments EnrollmentStore, grades GradeStore) *FacultyHandler {
	if courses == nil || enrollments == nil || grades == nil {
		panic("nil store passed to NewFacultyHandler")
	}
	return &FacultyHandler{
		Courses:           courses,
		Enrollments:       enrollments,
		Grades:            grades,
		PublishGradeEvent: queuepublisher.PublishGradeRecorded,
	}
}

// AddCourse handles POST /add-course/ and creates a course owned by the
// acting faculty member.  Courses are never created on behalf of
// another faculty identity through this endpoint.
func (h *FacultyHandler) AddCourse(c echo.Context) error {
	facultyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Name        string `form:"course_name" json:"course_name"`
		Description string `form:"description" json:"description"`
	}
	if err := c.Bind(&body); err != nil {
		return flashAndRedirect(c, "Invalid form submission.", "/faculty-profile/")
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return flashAndRedirect(c, "Course name is required.", "/faculty-profile/")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	course := &model.Course{Name: name, Description: strings.TrimSpace(body.Description), FacultyID: facultyID}
	if err := h.Courses.Create(ctx, course); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create course"})
	}
	return flashAndRedirect(c, "Course added successfully.", "/faculty-profile/")
}

// Profile handles GET /faculty-profile/: the acting faculty member's
// own courses in creation order.
func (h *FacultyHandler) Profile(c echo.Context) error {
	facultyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	courses, err := h.Courses.ListByFaculty(ctx, facultyID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"name":    sessionName(c),
		"courses": courses,
		"flash":   popFlash(c),
	})
}

// rosterEntry is one row of the roster view.  Marks and Letter are
// empty strings for enrolled-but-ungraded students.
type rosterEntry struct {
	StudentID   uint64 `json:"student_id"`
	StudentName string `json:"student_name"`
	Email       string `json:"email"`
	Marks       string `json:"marks"`
	Letter      string `json:"letter"`
}

// CourseStudents handles GET /course/:courseId/students/.  A course
// that does not exist and a course owned by another faculty member
// answer the same 404, so faculty cannot probe each other's catalog.
func (h *FacultyHandler) CourseStudents(c echo.Context) error {
	facultyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	courseID, err := strconv.ParseUint(c.Param("courseId"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	course, err := h.Courses.GetByIDAndOwner(ctx, courseID, facultyID)
	if err != nil {
		if err == repository.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	roster, err := h.Grades.Roster(ctx, courseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	entries := make([]rosterEntry, 0, len(roster))
	for _, row := range roster {
		e := rosterEntry{StudentID: row.StudentID, StudentName: row.StudentName, Email: row.Email}
		if row.Marks != nil {
			e.Marks = formatMarks(*row.Marks)
		}
		if row.Letter != nil {
			e.Letter = *row.Letter
		}
		entries = append(entries, e)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"course":   course.Name,
		"students": entries,
		"flash":    popFlash(c),
	})
}

// UpdateGrade handles POST /update-grade/.  Ownership of the course is
// verified before the write, the same as every other faculty-scoped
// operation, and the student must hold an enrollment in the course.
// The write itself is a single upsert, so repeating it overwrites the
// existing grade instead of adding a second row.
func (h *FacultyHandler) UpdateGrade(c echo.Context) error {
	facultyID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		StudentID string `form:"student_id" json:"student_id"`
		CourseID  string `form:"course_id" json:"course_id"`
		Marks     string `form:"marks" json:"marks"`
		Letter    string `form:"grade" json:"grade"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	studentID, err := strconv.ParseUint(strings.TrimSpace(body.StudentID), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid student id"})
	}
	courseID, err := strconv.ParseUint(strings.TrimSpace(body.CourseID), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	marks, err := strconv.ParseFloat(strings.TrimSpace(body.Marks), 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid marks"})
	}
	letter := strings.TrimSpace(body.Letter)
	if letter == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "grade is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	course, err := h.Courses.GetByIDAndOwner(ctx, courseID, facultyID)
	if err != nil {
		if err == repository.ErrCourseNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	back := "/course/" + strconv.FormatUint(courseID, 10) + "/students/"

	enrolled, err := h.Enrollments.IsEnrolled(ctx, studentID, courseID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !enrolled {
		return flashAndRedirect(c, "Student is not enrolled in this course.", back)
	}

	if err := h.Grades.Upsert(ctx, studentID, courseID, marks, letter); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save grade"})
	}

	// Audit trail goes through the broker off the request path; the
	// publisher logs its own failures.
	evt := queue.GradeRecordedEvent{
		StudentID:  studentID,
		CourseID:   courseID,
		CourseName: course.Name,
		FacultyID:  facultyID,
		Marks:      marks,
		Letter:     letter,
		RecordedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if h.PublishGradeEvent != nil {
		go func() { _ = h.PublishGradeEvent(context.Background(), evt) }()
	}

	return flashAndRedirect(c, "Grade updated successfully.", back)
}
