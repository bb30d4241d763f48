package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/academic-records/internal/model"
	"github.com/iliyamo/academic-records/internal/utils"
)

// UserRepo provides access to the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt hash of the given password and
// returns the new row ID.  Emails are lowercased before the insert so
// the UNIQUE index enforces case-insensitive uniqueness.
func (r *UserRepo) Create(ctx context.Context, name, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// FacultyDirectoryEntry pairs a faculty member with the names of the
// courses they teach, in creation order.  It backs the admin panel.
type FacultyDirectoryEntry struct {
	FacultyID   uint64   `json:"faculty_id"`
	FacultyName string   `json:"faculty_name"`
	Courses     []string `json:"courses"`
}

// ListFacultyWithCourses returns one entry per FACULTY user together
// with their course names.  Faculty without courses appear with an
// empty course list; an empty faculty set yields an empty slice.
func (r *UserRepo) ListFacultyWithCourses(ctx context.Context) ([]FacultyDirectoryEntry, error) {
	const q = `SELECT u.id, u.name, c.name
	           FROM users u
	           LEFT JOIN courses c ON c.faculty_id = u.id
	           WHERE u.role = 'FACULTY'
	           ORDER BY u.id, c.id`
	rows, err := r.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []FacultyDirectoryEntry{}
	for rows.Next() {
		var (
			id     uint64
			name   string
			course sql.NullString
		)
		if err := rows.Scan(&id, &name, &course); err != nil {
			return nil, err
		}
		if len(out) == 0 || out[len(out)-1].FacultyID != id {
			out = append(out, FacultyDirectoryEntry{FacultyID: id, FacultyName: name, Courses: []string{}})
		}
		if course.Valid {
			e := &out[len(out)-1]
			e.Courses = append(e.Courses, course.String)
		}
	}
	return out, rows.Err()
}
