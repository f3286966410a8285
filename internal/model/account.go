package model

import "time"

// Account roles.  A single accounts table carries a role column with a
// unique index on email, so the "an email belongs to at most one account"
// rule is a database constraint instead of three separate lookups.
const (
	RoleUser   = "user"
	RoleVendor = "vendor"
	RoleAdmin  = "admin"
)

// ValidRole reports whether the given string is one of the known roles.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleVendor || role == RoleAdmin
}

// Account represents a row in the `accounts` table.  PasswordHash is
// nullable: accounts created through a social sign-in carry no local
// credential and authenticate by email only.  Fraud applies to vendors;
// a flagged vendor keeps its record but loses its listings.
//
// Fields:
//
//	ID           – primary key identifier.
//	Name         – display name.
//	Email        – unique email address across all roles.
//	Photo        – profile image URL (may be empty).
//	Role         – one of user, vendor, admin.
//	PasswordHash – bcrypt hash, nil when registered without a password.
//	Fraud        – vendor fraud flag.
//	CreatedAt    – timestamp of creation.
type Account struct {
	ID           uint64    // accounts.id
	Name         string    // accounts.name
	Email        string    // accounts.email
	Photo        string    // accounts.photo
	Role         string    // accounts.role
	PasswordHash *string   // accounts.password_hash (nullable)
	Fraud        bool      // accounts.fraud
	CreatedAt    time.Time // accounts.created_at
}
