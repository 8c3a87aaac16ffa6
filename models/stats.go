package models

import "time"

// PlayerStats carries running totals for one player (one roster spell).
// A user who has played for several teams has several rows; career totals
// are the sum over all of them.
type PlayerStats struct {
	ID           int       `json:"id" db:"id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	UserID       int       `json:"user_id" db:"user_id"`
	TotalGoals   int       `json:"totalgoals" db:"total_goals"`
	TotalAssists int       `json:"totalassists" db:"total_assists"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Matches []MatchStatLine `json:"matches,omitempty" db:"-"`
}

// MatchStatLine is one appended per goal event rather than merged per match,
// so a player scoring twice in a match has two lines for it. Totals are the
// authoritative counters; lines are the replayable event shape.
type MatchStatLine struct {
	ID      int `json:"id" db:"id"`
	StatsID int `json:"-" db:"stats_id"`
	MatchID int `json:"match_id" db:"match_id"`
	Goals   int `json:"goals" db:"goals"`
	Assists int `json:"assists" db:"assists"`
}

// CareerStats is the denormalized view served on profile reads: totals
// summed across every PlayerStats row for the user, alongside the
// current-team row.
type CareerStats struct {
	TotalGoals     int `json:"totalgoals"`
	TotalAssists   int `json:"totalassists"`
	CurrentGoals   int `json:"currentgoals"`
	CurrentAssists int `json:"currentassists"`
	TotalMatches   int `json:"totalmatches"`
}
