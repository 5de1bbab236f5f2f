package model

import "time"

// Roles a user account can carry. Farmers submit queries and raise
// escalations; officers additionally see every escalation and the
// officer-scoped reporting endpoints.
const (
	RoleFarmer  = "farmer"
	RoleOfficer = "officer"
)

// User represents an application user record as stored in the
// `users` table. Identity is a phone number verified through a
// one-time passcode; there is no password. The json tags are
// omitted here because these structs are primarily used by the
// repository layer; handlers define separate response types with
// appropriate JSON tags.
//
// Fields:
//  ID         – primary key identifier of the user.
//  Name       – display name of the farmer or officer.
//  Phone      – unique phone number used for OTP login.
//  Role       – "farmer" or "officer".
//  Language   – preferred answer language (see language.go).
//  IsVerified – whether the phone number has been OTP-verified.
//               Login is refused until this is true.
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type User struct {
	ID         uint64    // users.id
	Name       string    // users.name
	Phone      string    // users.phone (unique)
	Role       string    // users.role
	Language   string    // users.language
	IsVerified bool      // users.is_verified
	CreatedAt  time.Time // users.created_at
	UpdatedAt  time.Time // users.updated_at
}
