package repository

import (
	"errors"
	"strings"
)

var (
	// ErrEmailExists is returned when a user insert collides with the
	// unique email index.
	ErrEmailExists = errors.New("email already exists")
	// ErrCourseNotFound covers both a missing course and a course owned
	// by someone else; callers surface the two identically.
	ErrCourseNotFound = errors.New("course not found")
)

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062 from a UNIQUE index).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
