package models

import "time"

type Team struct {
	ID           int       `json:"id" db:"id"`
	TeamName     string    `json:"teamname" db:"teamname"`
	Country      string    `json:"country" db:"country"`
	CreatedBy    string    `json:"created_by" db:"created_by"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Active       bool      `json:"active" db:"active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Roster []Player `json:"roster,omitempty" db:"-"`
}

// TeamRecord is the win/draw/loss summary over Full Time matches.
type TeamRecord struct {
	TotalMatches int `json:"total_matches"`
	Wins         int `json:"wins"`
	Draws        int `json:"draws"`
	Losses       int `json:"losses"`
	TotalPlayers int `json:"total_players"`
}
