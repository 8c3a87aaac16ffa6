package models

import "time"

// Pending records awaiting accept/reject. Accept materializes the live
// record and deletes the pending one; reject just deletes it.

type TeamRequest struct {
	ID           int       `json:"id" db:"id"`
	TeamName     string    `json:"teamname" db:"teamname"`
	Country      string    `json:"country" db:"country"`
	CreatedBy    string    `json:"created_by" db:"created_by"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

type OfficialRequest struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// PlayerRequest is a roster invitation from a team to a user.
type PlayerRequest struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	PlayerNo  string    `json:"player_no" db:"player_no"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
	User *User `json:"user,omitempty" db:"-"`
}

type RequestAction string

const (
	RequestActionAccept RequestAction = "accept"
	RequestActionReject RequestAction = "reject"
)

func (a RequestAction) Valid() bool {
	return a == RequestActionAccept || a == RequestActionReject
}
