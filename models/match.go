package models

import (
	"fmt"
	"time"
)

type MatchStatus string

const (
	MatchStatusUpcoming MatchStatus = "Upcoming"
	MatchStatusLive     MatchStatus = "Live"
	MatchStatusHalfTime MatchStatus = "Half Time"
	MatchStatusFullTime MatchStatus = "Full Time"
	MatchStatusDelayed  MatchStatus = "Delayed"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusUpcoming, MatchStatusLive, MatchStatusHalfTime,
		MatchStatusFullTime, MatchStatusDelayed:
		return true
	}
	return false
}

type Score struct {
	TeamA int `json:"teamA" db:"score_a"`
	TeamB int `json:"teamB" db:"score_b"`
}

type Match struct {
	ID        int         `json:"id" db:"id"`
	TeamAID   int         `json:"team_a_id" db:"team_a_id"`
	TeamBID   int         `json:"team_b_id" db:"team_b_id"`
	Score     Score       `json:"score"`
	MatchDate string      `json:"match_date" db:"match_date"` // YYYY-MM-DD
	MatchTime string      `json:"match_time" db:"match_time"` // HH:MM, 24-hour
	Status    MatchStatus `json:"status" db:"status"`
	CreatedBy int         `json:"created_by" db:"created_by"`
	MVPUserID *int        `json:"mvp_user_id,omitempty" db:"mvp_user_id"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`

	TeamA *Team  `json:"teamA,omitempty" db:"-"`
	TeamB *Team  `json:"teamB,omitempty" db:"-"`
	Goals []Goal `json:"goals,omitempty" db:"-"`
}

// KickoffAt combines MatchDate and MatchTime into a single instant.
func (m *Match) KickoffAt() (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04", fmt.Sprintf("%s %s", m.MatchDate, m.MatchTime))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid match date/time %q %q: %w", m.MatchDate, m.MatchTime, err)
	}
	return t, nil
}

// Goal is a single scoring event embedded in a match, ordered by ScoredAt.
type Goal struct {
	ID             int       `json:"id" db:"id"`
	MatchID        int       `json:"match_id" db:"match_id"`
	ScorerPlayerID int       `json:"scorer_player_id" db:"scorer_player_id"`
	AssistPlayerID *int      `json:"assist_player_id,omitempty" db:"assist_player_id"`
	TeamID         int       `json:"team_id" db:"team_id"`
	ScoredAt       time.Time `json:"scored_at" db:"scored_at"`

	Scorer *Player `json:"scorer,omitempty" db:"-"`
	Assist *Player `json:"assist,omitempty" db:"-"`
	Team   *Team   `json:"team,omitempty" db:"-"`
}
