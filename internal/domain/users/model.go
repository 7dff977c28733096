package users

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Username  string `gorm:"type:varchar(150);not null;uniqueIndex:idx_users_username"`
	Email     string `gorm:"type:varchar(254);not null;uniqueIndex:idx_users_email"`
	FirstName string `gorm:"type:varchar(150)"`
	LastName  string `gorm:"type:varchar(150)"`
	Bio       string `gorm:"type:text"`
	Role      Role   `gorm:"type:varchar(150);not null;default:'user'"`

	// IsStaff grants admin capabilities regardless of Role.
	IsStaff bool

	// ConfirmationCode is overwritten on every signup request. It is never
	// cleared after a successful token exchange, only replaced by the next
	// signup.
	ConfirmationCode string `gorm:"type:varchar(150)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.IsStaff
}

func (u User) IsModerator() bool {
	return u.Role == RoleModerator
}

func (u User) IsUser() bool {
	return u.Role == RoleUser
}
