package domain

import "strconv"

// Role enumerates the account roles the platform knows about.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Identity is the caller as resolved from the access credential (or, when the
// credential carries no role claim, from a profile fetch). It is derived
// state: recomputed on demand and invalid the moment the credential pair is
// cleared.
type Identity struct {
	SubjectID string
	Role      Role
}

// IsZero reports whether no identity was resolved.
func (i Identity) IsZero() bool {
	return i.SubjectID == ""
}

// Profile mirrors the account record served by the platform. It is the
// authoritative source of the role.
type Profile struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	City   string `json:"city"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Identity derives the caller identity from the profile.
func (p Profile) Identity() Identity {
	return Identity{
		SubjectID: strconv.FormatInt(p.ID, 10),
		Role:      p.Role,
	}
}

// Teacher is an entry from the public authors listing, including the courses
// the teacher owns.
type Teacher struct {
	ID      int64    `json:"id"`
	Name    string   `json:"name"`
	Avatar  string   `json:"avatar,omitempty"`
	Courses []Course `json:"courses"`
}
