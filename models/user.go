package models

import "time"

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	DOB          time.Time `json:"dob" db:"dob"`
	Gender       string    `json:"gender" db:"gender"`
	Country      string    `json:"country" db:"country"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Position     string    `json:"position" db:"position"`
	Foot         string    `json:"foot" db:"foot"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	PicKey *string `json:"-" db:"pic_key"`
	PicURL *string `json:"pic_url,omitempty" db:"-"`
}

// Age is derived from DOB at read time, not stored.
func (u *User) Age(now time.Time) int {
	age := now.Year() - u.DOB.Year()
	if now.Month() < u.DOB.Month() ||
		(now.Month() == u.DOB.Month() && now.Day() < u.DOB.Day()) {
		age--
	}
	return age
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
