package model

import "time"

// Role values carried in a session and, for the two application roles,
// stored in the `users.role` column.  ADMIN is session-only: the
// administrator is a configured bypass identity with no backing row,
// so it must never appear in the database.
const (
	RoleAdmin   = "ADMIN"
	RoleFaculty = "FACULTY"
	RoleStudent = "STUDENT"
)

// User mirrors a row of the `users` table.  Handlers never expose this
// struct directly; they build role-shaped response types instead.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, stored lowercased.
//  Name         – display name shown on profile pages.
//  PasswordHash – bcrypt hash of the credential; plaintext is never stored.
//  Role         – FACULTY or STUDENT; immutable after creation.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	Name         string    // users.name
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
