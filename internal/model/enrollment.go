package model

import "time"

// Enrollment mirrors a row of the `enrollments` table.  The UNIQUE key
// on (student_id, course_id) guarantees at most one enrollment per
// student per course; rows are append-only and never updated.
type Enrollment struct {
	ID         uint64    // enrollments.id
	StudentID  uint64    // enrollments.student_id (references users.id, role STUDENT)
	CourseID   uint64    // enrollments.course_id
	EnrolledAt time.Time // enrollments.enrolled_at
}
