package model

import "time"

// User represents a registered resident. Profile fields stay empty until
// the one-time profile setup.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FullName     string    `json:"full_name" gorm:"size:255;not null"`
	Phone        string    `json:"phone" gorm:"size:32"`
	PublicName   string    `json:"public_name" gorm:"size:255"`
	Country      string    `json:"country" gorm:"size:100"`
	State        string    `json:"state" gorm:"size:100"`
	District     string    `json:"district" gorm:"size:100"`
	PinCode      string    `json:"pin_code" gorm:"size:16;index"`
	Area         string    `json:"area" gorm:"size:255"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileComplete reports whether the user has picked a public name.
func (u *User) ProfileComplete() bool {
	return u != nil && u.PublicName != ""
}
