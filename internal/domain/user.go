package domain

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// UnnamedMember is the display name used when the requester has no user record.
const UnnamedMember = "Unnamed"

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleMember || r == RoleAdmin
}

type User struct {
	Email     string    `json:"email" firestore:"email"`
	Name      string    `json:"name" firestore:"name"`
	Role      Role      `json:"role" firestore:"role"`
	Photo     string    `json:"photo,omitempty" firestore:"photo,omitempty"`
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt"`
}

// Member is a user promoted by an approved booking.
type Member struct {
	ID       string    `json:"id" firestore:"-"`
	Email    string    `json:"email" firestore:"email"`
	Name     string    `json:"name" firestore:"name"`
	JoinedAt time.Time `json:"joinedAt" firestore:"joinedAt"`
}
