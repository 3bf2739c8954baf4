package users

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type User struct {
	ID                    string  `gorm:"size:36;primaryKey"`
	Email                 string  `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash          string  `gorm:"not null"`
	FirstName             string  `gorm:"size:100;not null"`
	LastName              string  `gorm:"size:100;not null"`
	Gender                Gender  `gorm:"size:16;not null"`
	AvatarURL             string  `gorm:"not null"`
	Verified              bool    `gorm:"not null;default:false"`
	VerificationTokenHash *string `gorm:"size:64;index"`
	VerificationExpiresAt *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// DisplayName is "first last", falling back to the email and then "Unknown".
func (u *User) DisplayName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name != "" {
		return name
	}
	if u.Email != "" {
		return u.Email
	}
	return "Unknown"
}

// defaultAvatar returns the externally hosted avatar assigned at registration.
func defaultAvatar(g Gender) string {
	return "https://api.dicebear.com/7.x/thumbs/svg?seed=" + string(g)
}

type Profile struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Gender    Gender    `json:"gender"`
	AvatarURL string    `json:"avatarUrl"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Profile() Profile {
	return Profile{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Gender:    u.Gender,
		AvatarURL: u.AvatarURL,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}
