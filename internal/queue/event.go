// Package queue defines message payloads exchanged over the message broker.
package queue

// GradeRecordedEvent is published when a faculty member records or
// overwrites a grade.  It carries enough context for downstream
// consumers to build an audit trail without querying the primary
// database.
type GradeRecordedEvent struct {
	StudentID  uint64  `json:"student_id"`
	CourseID   uint64  `json:"course_id"`
	CourseName string  `json:"course_name"`
	FacultyID  uint64  `json:"faculty_id"`
	Marks      float64 `json:"marks"`
	Letter     string  `json:"letter"`
	RecordedAt string  `json:"recorded_at"`
}
