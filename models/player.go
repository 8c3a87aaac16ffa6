package models

import "time"

// Player is a roster membership: one user on one team with a jersey number.
// A user belongs to at most one team at a time (unique user_id).
type Player struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	PlayerNo  string    `json:"player_no" db:"player_no"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Team *Team `json:"team,omitempty" db:"-"`
	User *User `json:"user,omitempty" db:"-"`
}
