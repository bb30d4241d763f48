package repository

import (
	"context"
	"database/sql"
)

// EnrollmentRepo provides access to the `enrollments` table.
type EnrollmentRepo struct{ db *sql.DB }

func NewEnrollmentRepo(db *sql.DB) *EnrollmentRepo { return &EnrollmentRepo{db: db} }

// Enroll inserts an enrollment row for (studentID, courseID).  The
// UNIQUE(student_id, course_id) key makes the call idempotent under
// concurrent requests: a duplicate-key violation means the student is
// already enrolled and is reported as success.
func (r *EnrollmentRepo) Enroll(ctx context.Context, studentID, courseID uint64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO enrollments (student_id, course_id) VALUES (?,?)",
		studentID, courseID)
	if isDuplicate(err) {
		return nil
	}
	return err
}

// IsEnrolled reports whether the student holds an enrollment in the
// given course.
func (r *EnrollmentRepo) IsEnrolled(ctx context.Context, studentID, courseID uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM enrollments WHERE student_id=? AND course_id=? LIMIT 1",
		studentID, courseID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// EnrolledCourseIDs returns the set of course ids the student is
// enrolled in.  The catalog view uses it to mark enrolled rows without
// a join per course.
func (r *EnrollmentRepo) EnrolledCourseIDs(ctx context.Context, studentID uint64) (map[uint64]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT course_id FROM enrollments WHERE student_id=?", studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[uint64]bool)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// TranscriptRow is one line of a student's transcript: an enrolled
// course left-joined against that student's grade for it.  Marks and
// Letter are nil when the course has not been graded yet, which is
// distinct from a recorded grade of zero.
type TranscriptRow struct {
	CourseID   uint64
	CourseName string
	Marks      *float64
	Letter     *string
}

// Transcript returns one row per enrollment of the student, in
// enrollment order, with grade fields populated where a grade exists.
func (r *EnrollmentRepo) Transcript(ctx context.Context, studentID uint64) ([]TranscriptRow, error) {
	const q = `SELECT c.id, c.name, g.marks, g.letter
	           FROM enrollments e
	           JOIN courses c ON c.id = e.course_id
	           LEFT JOIN grades g ON g.student_id = e.student_id AND g.course_id = e.course_id
	           WHERE e.student_id = ?
	           ORDER BY e.id`
	rows, err := r.db.QueryContext(ctx, q, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TranscriptRow{}
	for rows.Next() {
		var (
			row    TranscriptRow
			marks  sql.NullFloat64
			letter sql.NullString
		)
		if err := rows.Scan(&row.CourseID, &row.CourseName, &marks, &letter); err != nil {
			return nil, err
		}
		if marks.Valid {
			m := marks.Float64
			row.Marks = &m
		}
		if letter.Valid {
			l := letter.String
			row.Letter = &l
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
