package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/academic-records/internal/model"
)

// CourseRepo provides access to the `courses` table.
type CourseRepo struct{ db *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{db: db} }

const courseColumns = "id, name, description, faculty_id, created_at"

// Create inserts a course owned by course.FacultyID and populates the
// generated ID and creation timestamp on the passed model.
func (r *CourseRepo) Create(ctx context.Context, course *model.Course) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO courses (name, description, faculty_id) VALUES (?,?,?)",
		course.Name, course.Description, course.FacultyID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	course.ID = uint64(id)
	// Query back the row so the caller sees the DB-assigned timestamp.
	return r.db.QueryRowContext(ctx,
		"SELECT created_at FROM courses WHERE id=?", course.ID).Scan(&course.CreatedAt)
}

// GetByID fetches a course by id.  ErrCourseNotFound is returned when
// no row matches.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (model.Course, error) {
	var c model.Course
	err := r.db.QueryRowContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id=? LIMIT 1",
		id).Scan(&c.ID, &c.Name, &c.Description, &c.FacultyID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Course{}, ErrCourseNotFound
	}
	return c, err
}

// GetByIDAndOwner fetches a course only when it is owned by the given
// faculty member.  A missing course and a course owned by another
// faculty both come back as ErrCourseNotFound so callers cannot tell
// the two apart.
func (r *CourseRepo) GetByIDAndOwner(ctx context.Context, id, facultyID uint64) (model.Course, error) {
	var c model.Course
	err := r.db.QueryRowContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id=? AND faculty_id=? LIMIT 1",
		id, facultyID).Scan(&c.ID, &c.Name, &c.Description, &c.FacultyID, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Course{}, ErrCourseNotFound
	}
	return c, err
}

// ListByFaculty returns the courses owned by a faculty member in
// creation order.
func (r *CourseRepo) ListByFaculty(ctx context.Context, facultyID uint64) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE faculty_id=? ORDER BY id",
		facultyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

// ListAll returns every course in creation order.  Used for the
// student-facing catalog.
func (r *CourseRepo) ListAll(ctx context.Context) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT " + courseColumns + " FROM courses ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCourses(rows)
}

func scanCourses(rows *sql.Rows) ([]model.Course, error) {
	out := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.FacultyID, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
