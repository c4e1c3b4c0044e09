package model

import "time"

// Roles a user may hold.  Accounts created through the public API are
// either plain members or café owners; admin is only assigned by seed data.
const (
	RoleUser      = "user"
	RoleCafeOwner = "cafe_owner"
	RoleAdmin     = "admin"
)

// User represents an account.  PasswordHash holds a bcrypt digest and is
// never serialised.
//
// Fields:
//  ID           – primary key identifier (UUID).
//  Username     – unique login name.
//  Email        – unique, stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  FullName     – display name.
//  Phone        – optional mobile number.
//  Avatar       – optional avatar URL.
//  Role         – one of RoleUser, RoleCafeOwner, RoleAdmin.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Phone        *string   `json:"phone"`
	Avatar       *string   `json:"avatar"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}
