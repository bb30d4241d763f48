package model

// Grade mirrors a row of the `grades` table.  Like enrollments, the
// (student_id, course_id) pair is unique, but grade rows are upserted:
// recording a grade for an already-graded pair overwrites marks and
// letter in place.
type Grade struct {
	ID        uint64  // grades.id
	StudentID uint64  // grades.student_id
	CourseID  uint64  // grades.course_id
	Marks     float64 // grades.marks
	Letter    string  // grades.letter (e.g. "A", "B+")
}
