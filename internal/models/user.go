package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// DefaultProfileImage is assigned to profiles created without an upload.
const DefaultProfileImage = "default-user.jpg"

// User is a registered account. Username and FullName fall back to the email
// local-part when left blank.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Username  string    `gorm:"uniqueIndex;size:100;not null" json:"username"`
	FullName  string    `gorm:"size:100" json:"full_name"`
	OTP       string    `gorm:"column:otp;size:100" json:"-"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *Profile `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

// BeforeSave derives empty username and full name from the email address.
func (u *User) BeforeSave(_ *gorm.DB) error {
	local := EmailLocalPart(u.Email)
	if strings.TrimSpace(u.FullName) == "" {
		u.FullName = local
	}
	if strings.TrimSpace(u.Username) == "" {
		u.Username = local
	}
	return nil
}

// EmailLocalPart returns the part of an address before the @.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(email), "@")
	return local
}

// Profile holds the public author card for a user.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Image     string    `gorm:"size:255;default:default-user.jpg" json:"image"`
	FullName  string    `gorm:"size:100" json:"full_name"`
	Bio       string    `gorm:"size:100" json:"bio"`
	About     string    `gorm:"size:100" json:"about"`
	Author    bool      `gorm:"default:false" json:"author"`
	Country   string    `gorm:"size:100" json:"country"`
	Facebook  string    `gorm:"size:100" json:"facebook"`
	Twitter   string    `gorm:"size:100" json:"twitter"`
	CreatedAt time.Time `json:"date"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// ApplyDefaults fills the blank fields a new profile inherits from its owner.
func (p *Profile) ApplyDefaults(owner *User) {
	if strings.TrimSpace(p.FullName) == "" && owner != nil {
		p.FullName = owner.FullName
	}
	if p.Image == "" {
		p.Image = DefaultProfileImage
	}
}
