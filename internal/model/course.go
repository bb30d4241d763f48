package model

import "time"

// Course mirrors a row of the `courses` table.  Every course is owned
// by exactly one faculty member; enrollments and grades hang off the
// course via foreign keys with ON DELETE CASCADE, so removing a course
// removes its ledger rows with it.
type Course struct {
	ID          uint64    `json:"id"`          // courses.id
	Name        string    `json:"name"`        // courses.name
	Description string    `json:"description"` // courses.description
	FacultyID   uint64    `json:"faculty_id"`  // courses.faculty_id (references users.id, role FACULTY)
	CreatedAt   time.Time `json:"created_at"`  // courses.created_at
}
