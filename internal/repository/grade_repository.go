package repository

import (
	"context"
	"database/sql"
)

// GradeRepo provides access to the `grades` table.
type GradeRepo struct{ db *sql.DB }

func NewGradeRepo(db *sql.DB) *GradeRepo { return &GradeRepo{db: db} }

// Upsert records a grade for a (student, course) pair.  The UNIQUE key
// on the pair turns the statement into an atomic insert-or-overwrite,
// so two concurrent writes for the same pair never produce two rows.
func (r *GradeRepo) Upsert(ctx context.Context, studentID, courseID uint64, marks float64, letter string) error {
	const q = `INSERT INTO grades (student_id, course_id, marks, letter) VALUES (?,?,?,?)
	           ON DUPLICATE KEY UPDATE marks = VALUES(marks), letter = VALUES(letter)`
	_, err := r.db.ExecContext(ctx, q, studentID, courseID, marks, letter)
	return err
}

// RosterRow is one student on a course roster with their grade status.
// Marks and Letter are nil for enrolled-but-ungraded students.
type RosterRow struct {
	StudentID   uint64
	StudentName string
	Email       string
	Marks       *float64
	Letter      *string
}

// Roster lists every student enrolled in the course, in enrollment
// order, left-joined against their grade for it.  Ownership of the
// course is the caller's concern; the query itself is unscoped.
func (r *GradeRepo) Roster(ctx context.Context, courseID uint64) ([]RosterRow, error) {
	const q = `SELECT u.id, u.name, u.email, g.marks, g.letter
	           FROM enrollments e
	           JOIN users u ON u.id = e.student_id
	           LEFT JOIN grades g ON g.student_id = e.student_id AND g.course_id = e.course_id
	           WHERE e.course_id = ?
	           ORDER BY e.id`
	rows, err := r.db.QueryContext(ctx, q, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []RosterRow{}
	for rows.Next() {
		var (
			row    RosterRow
			marks  sql.NullFloat64
			letter sql.NullString
		)
		if err := rows.Scan(&row.StudentID, &row.StudentName, &row.Email, &marks, &letter); err != nil {
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
