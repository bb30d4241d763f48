package handler

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/academic-records/internal/model"
	"github.com/iliyamo/academic-records/internal/repository"
	"github.com/iliyamo/academic-records/internal/utils"
)

// memStore is the in-memory backing state shared by the fake stores
// below.  The fakes mirror the uniqueness rules the real schema
// enforces with UNIQUE keys, so handler tests exercise the same
// duplicate/idempotency behavior the MySQL repositories exhibit.
type memStore struct {
	mu          sync.Mutex
	userSeq     uint64
	courseSeq   uint64
	gradeSeq    uint64
	users       []model.User
	courses     []model.Course
	enrollments []model.Enrollment
	grades      []model.Grade
}

func newMemStore() *memStore { return &memStore{} }

// seedCourse inserts a course directly, bypassing the handlers.
func (s *memStore) seedCourse(facultyID uint64, name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courseSeq++
	s.courses = append(s.courses, model.Course{
		ID: s.courseSeq, Name: name, FacultyID: facultyID, CreatedAt: time.Now().UTC(),
	})
	return s.courseSeq
}

// fakeUsers satisfies UserStore.
type fakeUsers struct{ s *memStore }

func (f fakeUsers) Create(_ context.Context, name, email, password, role string, cost int) (uint64, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return 0, repository.ErrEmailExists
		}
	}
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	s.userSeq++
	now := time.Now().UTC()
	s.users = append(s.users, model.User{
		ID: s.userSeq, Name: name, Email: email, PasswordHash: hash,
		Role: role, IsActive: true, CreatedAt: now, UpdatedAt: now,
	})
	return s.userSeq, nil
}

func (f fakeUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f fakeUsers) ListFacultyWithCourses(_ context.Context) ([]repository.FacultyDirectoryEntry, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []repository.FacultyDirectoryEntry{}
	for _, u := range s.users {
		if u.Role != model.RoleFaculty {
			continue
		}
		entry := repository.FacultyDirectoryEntry{FacultyID: u.ID, FacultyName: u.Name, Courses: []string{}}
		for _, c := range s.courses {
			if c.FacultyID == u.ID {
				entry.Courses = append(entry.Courses, c.Name)
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

// fakeCourses satisfies CourseStore.
type fakeCourses struct{ s *memStore }

func (f fakeCourses) Create(_ context.Context, course *model.Course) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courseSeq++
	course.ID = s.courseSeq
	course.CreatedAt = time.Now().UTC()
	s.courses = append(s.courses, *course)
	return nil
}

func (f fakeCourses) GetByID(_ context.Context, id uint64) (model.Course, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.courses {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Course{}, repository.ErrCourseNotFound
}

func (f fakeCourses) GetByIDAndOwner(_ context.Context, id, facultyID uint64) (model.Course, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.courses {
		if c.ID == id && c.FacultyID == facultyID {
			return c, nil
		}
	}
	return model.Course{}, repository.ErrCourseNotFound
}

func (f fakeCourses) ListByFaculty(_ context.Context, facultyID uint64) ([]model.Course, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Course{}
	for _, c := range s.courses {
		if c.FacultyID == facultyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeCourses) ListAll(_ context.Context) ([]model.Course, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Course, len(s.courses))
	copy(out, s.courses)
	return out, nil
}

// fakeEnrollments satisfies EnrollmentStore.
type fakeEnrollments struct{ s *memStore }

func (f fakeEnrollments) Enroll(_ context.Context, studentID, courseID uint64) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return nil // duplicate key treated as success
		}
	}
	s.enrollments = append(s.enrollments, model.Enrollment{
		ID: uint64(len(s.enrollments) + 1), StudentID: studentID,
		CourseID: courseID, EnrolledAt: time.Now().UTC(),
	})
	return nil
}

func (f fakeEnrollments) IsEnrolled(_ context.Context, studentID, courseID uint64) (bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeEnrollments) EnrolledCourseIDs(_ context.Context, studentID uint64) (map[uint64]bool, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[uint64]bool)
	for _, e := range s.enrollments {
		if e.StudentID == studentID {
			ids[e.CourseID] = true
		}
	}
	return ids, nil
}

func (f fakeEnrollments) Transcript(_ context.Context, studentID uint64) ([]repository.TranscriptRow, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := []repository.TranscriptRow{}
	for _, e := range s.enrollments {
		if e.StudentID != studentID {
			continue
		}
		row := repository.TranscriptRow{CourseID: e.CourseID}
		for _, c := range s.courses {
			if c.ID == e.CourseID {
				row.CourseName = c.Name
				break
			}
		}
		for _, g := range s.grades {
			if g.StudentID == studentID && g.CourseID == e.CourseID {
				m, l := g.Marks, g.Letter
				row.Marks, row.Letter = &m, &l
				break
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// fakeGrades satisfies GradeStore.
type fakeGrades struct{ s *memStore }

func (f fakeGrades) Upsert(_ context.Context, studentID, courseID uint64, marks float64, letter string) error {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.grades {
		if s.grades[i].StudentID == studentID && s.grades[i].CourseID == courseID {
			s.grades[i].Marks = marks
			s.grades[i].Letter = letter
			return nil
		}
	}
	s.gradeSeq++
	s.grades = append(s.grades, model.Grade{
		ID: s.gradeSeq, StudentID: studentID, CourseID: courseID,
		Marks: marks, Letter: letter,
	})
	return nil
}

func (f fakeGrades) Roster(_ context.Context, courseID uint64) ([]repository.RosterRow, error) {
	s := f.s
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := []repository.RosterRow{}
	for _, e := range s.enrollments {
		if e.CourseID != courseID {
			continue
		}
		row := repository.RosterRow{StudentID: e.StudentID}
		for _, u := range s.users {
			if u.ID == e.StudentID {
				row.StudentName = u.Name
				row.Email = u.Email
				break
			}
		}
		for _, g := range s.grades {
			if g.StudentID == e.StudentID && g.CourseID == courseID {
				m, l := g.Marks, g.Letter
				row.Marks, row.Letter = &m, &l
				break
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
