package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
	RoleApplicant = "applicant"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text" json:"name"`
	Email     string    `gorm:"type:text;uniqueIndex" json:"email"`
	Role      string    `gorm:"type:text;not null;default:'applicant'" json:"role,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (User) TableName() string {
	return "users"
}

type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Logo      string    `gorm:"type:text" json:"logo,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Company) TableName() string {
	return "companies"
}

// Principal is the authenticated caller.
type Principal struct {
	UserID    string
	Email     string
	Role      string
	CompanyID string
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
