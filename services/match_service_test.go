package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fbscore/fbscore/live"
	"github.com/fbscore/fbscore/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type matchServiceFixture struct {
	svc     *matchService
	mock    sqlmock.Sqlmock
	matches *fakeMatchRepo
	teams   *fakeTeamRepo
	players *fakePlayerRepo
	users   *fakeUserRepo
	stats   *fakeStatsRepo
	hub     *fakeBroadcaster
}

func newMatchServiceFixture(t *testing.T) *matchServiceFixture {
	t.Helper()
	db, mock := newTestDB(t)
	f := &matchServiceFixture{
		mock:    mock,
		matches: newFakeMatchRepo(),
		teams:   newFakeTeamRepo(),
		players: newFakePlayerRepo(),
		users:   newFakeUserRepo(),
		stats:   newFakeStatsRepo(),
		hub:     &fakeBroadcaster{},
	}
	svc := NewMatchService(db, f.matches, f.teams, f.players, f.users, f.stats, f.hub, &fakeUploader{})
	f.svc = svc.(*matchService)
	f.svc.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return f
}

// Two teams of two players each, used by most scenarios.
func (f *matchServiceFixture) seedTeams() (teamA, teamB *models.Team, rosterA, rosterB []*models.Player) {
	teamA = f.teams.add(models.Team{TeamName: "Dynamo", Email: "dynamo@example.com"})
	teamB = f.teams.add(models.Team{TeamName: "Spartak", Email: "spartak@example.com"})
	for i, team := range []*models.Team{teamA, teamB} {
		for j := 0; j < 2; j++ {
			user := f.users.add(models.User{Name: "player", Email: "p@example.com"})
			p := f.players.add(models.Player{TeamID: team.ID, UserID: user.ID, PlayerNo: string(rune('1' + i*2 + j))})
			if team == teamA {
				rosterA = append(rosterA, p)
			} else {
				rosterB = append(rosterB, p)
			}
		}
	}
	return teamA, teamB, rosterA, rosterB
}

func (f *matchServiceFixture) seedLiveMatch(teamA, teamB *models.Team, officialID int) *models.Match {
	return f.matches.add(models.Match{
		TeamAID:   teamA.ID,
		TeamBID:   teamB.ID,
		MatchDate: "2025-06-01",
		MatchTime: "11:00",
		Status:    models.MatchStatusLive,
		CreatedBy: officialID,
	})
}

func TestMatchServiceCreateRejectsPastKickoff(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, _, _ := f.seedTeams()

	_, err := f.svc.Create(context.Background(), 1, CreateMatchInput{
		TeamAID:   teamA.ID,
		TeamBID:   teamB.ID,
		MatchDate: "2025-05-31",
		MatchTime: "18:00",
	})
	require.ErrorIs(t, err, ErrMatchInPast)
}

func TestMatchServiceCreateRejectsSameTeam(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, _, _, _ := f.seedTeams()

	_, err := f.svc.Create(context.Background(), 1, CreateMatchInput{
		TeamAID:   teamA.ID,
		TeamBID:   teamA.ID,
		MatchDate: "2025-06-02",
		MatchTime: "18:00",
	})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestMatchServiceCreateRejectsUnknownTeam(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, _, _, _ := f.seedTeams()

	_, err := f.svc.Create(context.Background(), 1, CreateMatchInput{
		TeamAID:   teamA.ID,
		TeamBID:   999,
		MatchDate: "2025-06-02",
		MatchTime: "18:00",
	})
	require.ErrorIs(t, err, ErrTeamNotFound)
}

func TestMatchServiceCreateSeedsRosterStatLines(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, rosterA, rosterB := f.seedTeams()

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	match, err := f.svc.Create(context.Background(), 7, CreateMatchInput{
		TeamAID:   teamA.ID,
		TeamBID:   teamB.ID,
		MatchDate: "2025-06-02",
		MatchTime: "18:00",
	})
	require.NoError(t, err)
	require.NotZero(t, match.ID)
	assert.Equal(t, models.MatchStatusUpcoming, match.Status)
	assert.Equal(t, 7, match.CreatedBy)

	// every roster player gets a zero-valued line for the fixture
	assert.Len(t, f.stats.lines, len(rosterA)+len(rosterB))
	for _, line := range f.stats.lines {
		assert.Equal(t, match.ID, line.MatchID)
		assert.Zero(t, line.Goals)
		assert.Zero(t, line.Assists)
	}
	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestMatchServiceUpdateStatusRejectsInvalid(t *testing.T) {
	f := newMatchServiceFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), 1, 1, models.MatchStatus("Cancelled"))
	require.ErrorIs(t, err, ErrMatchInvalidStatus)
}

func TestMatchServiceUpdateStatusRejectsForeignMatch(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, _, _ := f.seedTeams()
	match := f.seedLiveMatch(teamA, teamB, 7)

	_, err := f.svc.UpdateStatus(context.Background(), 8, match.ID, models.MatchStatusHalfTime)
	require.ErrorIs(t, err, ErrForbiddenOperation)
}

func TestMatchServiceUpdateStatusUpcomingPastKickoffBecomesDelayed(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, _, _ := f.seedTeams()
	match := f.matches.add(models.Match{
		TeamAID:   teamA.ID,
		TeamBID:   teamB.ID,
		MatchDate: "2025-06-01",
		MatchTime: "11:00", // now is 12:00
		Status:    models.MatchStatusLive,
		CreatedBy: 7,
	})

	updated, err := f.svc.UpdateStatus(context.Background(), 7, match.ID, models.MatchStatusUpcoming)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusDelayed, updated.Status)

	stored, err := f.matches.GetByID(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusDelayed, stored.Status)

	require.Len(t, f.hub.rooms, 1)
	assert.Equal(t, live.MatchRoom(match.ID), f.hub.rooms[0])
	msg, ok := f.hub.messages[0].(live.Message)
	require.True(t, ok)
	assert.Equal(t, live.MessageStatusChanged, msg.Type)
}

func TestMatchServiceRecordGoalRequiresLive(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, rosterA, _ := f.seedTeams()
	match := f.matches.add(models.Match{
		TeamAID:   teamA.ID,
		TeamBID:   teamB.ID,
		MatchDate: "2025-06-01",
		MatchTime: "11:00",
		Status:    models.MatchStatusHalfTime,
		CreatedBy: 7,
	})

	_, err := f.svc.RecordGoal(context.Background(), 7, match.ID, GoalInput{
		TeamID:         teamA.ID,
		ScorerPlayerID: rosterA[0].ID,
	})
	require.ErrorIs(t, err, ErrMatchNotLive)
}

func TestMatchServiceRecordGoalRejectsForeignTeam(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, rosterA, _ := f.seedTeams()
	outsider := f.teams.add(models.Team{TeamName: "Zenit", Email: "zenit@example.com"})
	match := f.seedLiveMatch(teamA, teamB, 7)

	_, err := f.svc.RecordGoal(context.Background(), 7, match.ID, GoalInput{
		TeamID:         outsider.ID,
		ScorerPlayerID: rosterA[0].ID,
	})
	require.ErrorIs(t, err, ErrTeamNotInMatch)
}

func TestMatchServiceRecordGoalRejectsOffRosterScorer(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, _, _ := f.seedTeams()
	match := f.seedLiveMatch(teamA, teamB, 7)

	_, err := f.svc.RecordGoal(context.Background(), 7, match.ID, GoalInput{
		TeamID:         teamA.ID,
		ScorerPlayerID: 999,
	})
	require.ErrorIs(t, err, ErrPlayerNotOnRosters)
}

func TestMatchServiceRecordGoalUpdatesScoreStatsAndBroadcasts(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, rosterA, _ := f.seedTeams()
	match := f.seedLiveMatch(teamA, teamB, 7)
	scorer, assist := rosterA[0], rosterA[1]

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	updated, err := f.svc.RecordGoal(context.Background(), 7, match.ID, GoalInput{
		TeamID:         teamA.ID,
		ScorerPlayerID: scorer.ID,
		AssistPlayerID: &assist.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Score.TeamA)
	assert.Equal(t, 0, updated.Score.TeamB)

	scorerStats, err := f.stats.GetByPlayerID(context.Background(), scorer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, scorerStats.TotalGoals)
	assert.Equal(t, 0, scorerStats.TotalAssists)

	assistStats, err := f.stats.GetByPlayerID(context.Background(), assist.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, assistStats.TotalGoals)
	assert.Equal(t, 1, assistStats.TotalAssists)

	// one line per contribution, appended not merged
	scorerLines, err := f.stats.ListLines(context.Background(), scorerStats.ID)
	require.NoError(t, err)
	require.Len(t, scorerLines, 1)
	assert.Equal(t, 1, scorerLines[0].Goals)

	goals, err := f.matches.ListGoals(context.Background(), match.ID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, scorer.ID, goals[0].ScorerPlayerID)

	require.Len(t, f.hub.rooms, 1)
	assert.Equal(t, live.MatchRoom(match.ID), f.hub.rooms[0])
	msg := f.hub.messages[0].(live.Message)
	assert.Equal(t, live.MessageGoalScored, msg.Type)

	require.NoError(t, f.mock.ExpectationsWereMet())
}

func TestMatchServiceRecordGoalTwiceAppendsTwoLines(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, rosterA, _ := f.seedTeams()
	match := f.seedLiveMatch(teamA, teamB, 7)
	scorer := rosterA[0]

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	for i := 0; i < 2; i++ {
		_, err := f.svc.RecordGoal(context.Background(), 7, match.ID, GoalInput{
			TeamID:         teamA.ID,
			ScorerPlayerID: scorer.ID,
		})
		require.NoError(t, err)
	}

	stored, err := f.matches.GetByID(context.Background(), match.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Score.TeamA)

	stats, err := f.stats.GetByPlayerID(context.Background(), scorer.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGoals)

	lines, err := f.stats.ListLines(context.Background(), stats.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestMatchServiceAssignMVPRequiresFullTime(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, rosterA, _ := f.seedTeams()
	match := f.seedLiveMatch(teamA, teamB, 7)

	err := f.svc.AssignMVP(context.Background(), 7, match.ID, rosterA[0].UserID)
	require.ErrorIs(t, err, ErrMatchNotFullTime)
}

func TestMatchServiceAssignMVPSetsUser(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, rosterA, _ := f.seedTeams()
	match := f.matches.add(models.Match{
		TeamAID:   teamA.ID,
		TeamBID:   teamB.ID,
		MatchDate: "2025-06-01",
		MatchTime: "11:00",
		Status:    models.MatchStatusFullTime,
		CreatedBy: 7,
	})

	err := f.svc.AssignMVP(context.Background(), 7, match.ID, rosterA[0].UserID)
	require.NoError(t, err)

	stored, err := f.matches.GetByID(context.Background(), match.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.MVPUserID)
	assert.Equal(t, rosterA[0].UserID, *stored.MVPUserID)
}

func TestMatchServiceAssignMVPRejectsUnknownUser(t *testing.T) {
	f := newMatchServiceFixture(t)
	teamA, teamB, _, _ := f.seedTeams()
	match := f.matches.add(models.Match{
		TeamAID:   teamA.ID,
		TeamBID:   teamB.ID,
		MatchDate: "2025-06-01",
		MatchTime: "11:00",
		Status:    models.MatchStatusFullTime,
		CreatedBy: 7,
	})

	err := f.svc.AssignMVP(context.Background(), 7, match.ID, 12345)
	require.ErrorIs(t, err, ErrUserNotFound)
}
