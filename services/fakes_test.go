package services

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/fbscore/fbscore/cache"
	"github.com/fbscore/fbscore/models"
	"github.com/fbscore/fbscore/repositories"
	"github.com/fbscore/fbscore/storage"
)

// In-memory repository doubles. They ignore the SQLExecutor argument:
// transactional grouping is exercised through sqlmock Begin/Commit
// expectations, the data lives here.

type fakeUploader struct{}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	return &storage.UploadResult{Key: key, Location: "https://cdn.test/" + key}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeUploader) GetPublicURL(key string) string { return "https://cdn.test/" + key }

type fakeMailer struct {
	mu    sync.Mutex
	sent  []string
	codes map[string]string // email -> last otp code
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{codes: make(map[string]string)}
}

func (m *fakeMailer) record(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, kind)
}

func (m *fakeMailer) SendOTPEmail(email, code string) error {
	m.mu.Lock()
	m.codes[email] = code
	m.mu.Unlock()
	m.record("otp")
	return nil
}

func (m *fakeMailer) SendTeamRequestResultEmail(email, teamName string, accepted bool) error {
	m.record("team_request_result")
	return nil
}

func (m *fakeMailer) SendOfficialRequestResultEmail(email, name string, accepted bool) error {
	m.record("official_request_result")
	return nil
}

func (m *fakeMailer) SendRosterInviteEmail(userEmail, teamName, playerNo string) error {
	m.record("roster_invite")
	return nil
}

func (m *fakeMailer) SendRosterDecisionEmail(teamEmail, userName string, accepted bool) error {
	m.record("roster_decision")
	return nil
}

func (m *fakeMailer) SendPlayerRemovalEmail(userEmail, teamName string) error {
	m.record("roster_removal")
	return nil
}

func (m *fakeMailer) lastCode(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email]
}

type fakeBroadcaster struct {
	mu       sync.Mutex
	messages []interface{}
	rooms    []string
}

func (b *fakeBroadcaster) BroadcastToRoom(roomID string, message interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rooms = append(b.rooms, roomID)
	b.messages = append(b.messages, message)
}

type fakeOTPStore struct {
	mu    sync.Mutex
	codes map[string]string // purpose+email -> code
	ttls  map[string]time.Duration
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{codes: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (s *fakeOTPStore) Put(ctx context.Context, purpose, email, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[purpose+":"+email] = code
	s.ttls[purpose+":"+email] = ttl
	return nil
}

func (s *fakeOTPStore) Consume(ctx context.Context, purpose, email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := purpose + ":" + email
	stored, ok := s.codes[key]
	if !ok {
		return cache.ErrOTPNotFound
	}
	if stored != code {
		return cache.ErrOTPMismatch
	}
	delete(s.codes, key)
	return nil
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]*models.User)}
}

func (r *fakeUserRepo) add(u models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u.ID = r.nextID
	r.nextID++
	r.users[u.ID] = &u
	return &u
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = r.nextID
	r.nextID++
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateFields(ctx context.Context, id int, fields map[string]interface{}) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	if v, ok := fields["name"].(string); ok {
		u.Name = v
	}
	if v, ok := fields["country"].(string); ok {
		u.Country = v
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdatePasswordByEmail(ctx context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u.PasswordHash = passwordHash
			return nil
		}
	}
	return repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeUserRepo) ListWithoutTeam(ctx context.Context) ([]*models.User, error) {
	return r.List(ctx)
}

func (r *fakeUserRepo) SearchByName(ctx context.Context, query string) ([]*models.User, error) {
	return r.List(ctx)
}

func (r *fakeUserRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users), nil
}

type fakeTeamRepo struct {
	mu     sync.Mutex
	nextID int
	teams  map[int]*models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1, teams: make(map[int]*models.Team)}
}

func (r *fakeTeamRepo) add(t models.Team) *models.Team {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	r.teams[t.ID] = &t
	return &t
}

func (r *fakeTeamRepo) Create(ctx context.Context, exec repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.TeamName == team.TeamName {
			return repositories.ErrTeamNameConflict
		}
	}
	team.ID = r.nextID
	r.nextID++
	cp := *team
	r.teams[team.ID] = &cp
	return nil
}

func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTeamRepo) GetByEmail(ctx context.Context, email string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.Email == email {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) GetByName(ctx context.Context, teamname string) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.teams {
		if t.TeamName == teamname {
			cp := *t
			return &cp, nil
		}
	}
	return nil, repositories.ErrTeamNotFound
}

func (r *fakeTeamRepo) SearchByName(ctx context.Context, search string) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Team
	for _, t := range r.teams {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeTeamRepo) List(ctx context.Context) ([]*models.Team, error) {
	return r.SearchByName(ctx, "")
}

func (r *fakeTeamRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.teams), nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	nextID  int
	players map[int]*models.Player
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{nextID: 1, players: make(map[int]*models.Player)}
}

func (r *fakePlayerRepo) add(p models.Player) *models.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	r.players[p.ID] = &p
	return &p
}

func (r *fakePlayerRepo) Create(ctx context.Context, exec repositories.SQLExecutor, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.UserID == player.UserID {
			return repositories.ErrPlayerAlreadyOnTeam
		}
		if p.TeamID == player.TeamID && p.PlayerNo == player.PlayerNo {
			return repositories.ErrPlayerNumberConflict
		}
	}
	player.ID = r.nextID
	r.nextID++
	cp := *player
	r.players[player.ID] = &cp
	return nil
}

func (r *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePlayerRepo) GetByUserID(ctx context.Context, userID int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.UserID == userID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) ListByTeamID(ctx context.Context, teamID int) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Player
	for _, p := range r.players {
		if p.TeamID == teamID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePlayerRepo) GetByTeamAndNo(ctx context.Context, teamID int, playerNo string) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.players {
		if p.TeamID == teamID && p.PlayerNo == playerNo {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r *fakePlayerRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	return nil
}

func (r *fakePlayerRepo) DeleteByTeamID(ctx context.Context, exec repositories.SQLExecutor, teamID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int
	for id, p := range r.players {
		if p.TeamID == teamID {
			ids = append(ids, id)
			delete(r.players, id)
		}
	}
	return ids, nil
}

func (r *fakePlayerRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players), nil
}

func (r *fakePlayerRepo) DistinctUserCount(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[int]bool)
	for _, p := range r.players {
		seen[p.UserID] = true
	}
	return len(seen), nil
}

type fakePlayerRequestRepo struct {
	mu       sync.Mutex
	nextID   int
	requests map[int]*models.PlayerRequest
}

func newFakePlayerRequestRepo() *fakePlayerRequestRepo {
	return &fakePlayerRequestRepo{nextID: 1, requests: make(map[int]*models.PlayerRequest)}
}

func (r *fakePlayerRequestRepo) add(req models.PlayerRequest) *models.PlayerRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	req.ID = r.nextID
	r.nextID++
	r.requests[req.ID] = &req
	return &req
}

func (r *fakePlayerRequestRepo) Create(ctx context.Context, req *models.PlayerRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.TeamID == req.TeamID && existing.UserID == req.UserID {
			return repositories.ErrPlayerRequestDuplicate
		}
	}
	req.ID = r.nextID
	r.nextID++
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakePlayerRequestRepo) GetByID(ctx context.Context, id int) (*models.PlayerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, repositories.ErrPlayerRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakePlayerRequestRepo) GetByTeamAndUser(ctx context.Context, teamID, userID int) (*models.PlayerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.TeamID == teamID && req.UserID == userID {
			cp := *req
			return &cp, nil
		}
	}
	return nil, repositories.ErrPlayerRequestNotFound
}

func (r *fakePlayerRequestRepo) ListByUserID(ctx context.Context, userID int) ([]models.PlayerRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PlayerRequest
	for _, req := range r.requests {
		if req.UserID == userID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakePlayerRequestRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[id]; !ok {
		return repositories.ErrPlayerRequestNotFound
	}
	delete(r.requests, id)
	return nil
}

func (r *fakePlayerRequestRepo) DeleteByUserID(ctx context.Context, exec repositories.SQLExecutor, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, req := range r.requests {
		if req.UserID == userID {
			delete(r.requests, id)
		}
	}
	return nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	nextID  int
	matches map[int]*models.Match
	goals   []models.Goal
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func (r *fakeMatchRepo) add(m models.Match) *models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = r.nextID
	r.nextID++
	r.matches[m.ID] = &m
	return &m
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	match.ID = r.nextID
	r.nextID++
	cp := *match
	r.matches[match.ID] = &cp
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMatchRepo) List(ctx context.Context) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, m := range r.matches {
		out = append(out, *m)
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByTeamIDs(ctx context.Context, teamIDs []int) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[int]bool, len(teamIDs))
	for _, id := range teamIDs {
		ids[id] = true
	}
	var out []models.Match
	for _, m := range r.matches {
		if ids[m.TeamAID] || ids[m.TeamBID] {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByCreator(ctx context.Context, officialID int) ([]models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Match
	for _, m := range r.matches {
		if m.CreatedBy == officialID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListIDsByCreator(ctx context.Context, officialID int) ([]int, error) {
	matches, _ := r.ListByCreator(ctx, officialID)
	ids := make([]int, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (r *fakeMatchRepo) IncrementScore(ctx context.Context, exec repositories.SQLExecutor, matchID int, forTeamA bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	if forTeamA {
		m.Score.TeamA++
	} else {
		m.Score.TeamB++
	}
	return nil
}

func (r *fakeMatchRepo) InsertGoal(ctx context.Context, exec repositories.SQLExecutor, goal *models.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	goal.ID = len(r.goals) + 1
	goal.ScoredAt = time.Now()
	r.goals = append(r.goals, *goal)
	return nil
}

func (r *fakeMatchRepo) ListGoals(ctx context.Context, matchID int) ([]models.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Goal
	for _, g := range r.goals {
		if g.MatchID == matchID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) UpdateStatus(ctx context.Context, matchID int, status models.MatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.Status = status
	return nil
}

func (r *fakeMatchRepo) SetMVP(ctx context.Context, matchID, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.MVPUserID = &userID
	return nil
}

func (r *fakeMatchRepo) CountFullTimeByTeam(ctx context.Context, teamID int) (int, int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var played, won, lost int
	for _, m := range r.matches {
		if m.Status != models.MatchStatusFullTime {
			continue
		}
		if m.TeamAID != teamID && m.TeamBID != teamID {
			continue
		}
		played++
		our, their := m.Score.TeamA, m.Score.TeamB
		if m.TeamBID == teamID {
			our, their = their, our
		}
		if our > their {
			won++
		} else if our < their {
			lost++
		}
	}
	return played, won, lost, nil
}

func (r *fakeMatchRepo) CountByCreator(ctx context.Context, officialID int) (int, error) {
	matches, _ := r.ListByCreator(ctx, officialID)
	return len(matches), nil
}

func (r *fakeMatchRepo) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.matches), nil
}

func (r *fakeMatchRepo) DeleteByCreator(ctx context.Context, exec repositories.SQLExecutor, officialID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, m := range r.matches {
		if m.CreatedBy == officialID {
			delete(r.matches, id)
		}
	}
	return nil
}

type fakeStatsRepo struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]*models.PlayerStats // keyed by stats id
	lines  []models.MatchStatLine
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{nextID: 1, rows: make(map[int]*models.PlayerStats)}
}

func (r *fakeStatsRepo) EnsureRow(ctx context.Context, exec repositories.SQLExecutor, playerID, userID int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.PlayerID == playerID {
			return id, nil
		}
	}
	id := r.nextID
	r.nextID++
	r.rows[id] = &models.PlayerStats{ID: id, PlayerID: playerID, UserID: userID}
	return id, nil
}

func (r *fakeStatsRepo) IncrementTotals(ctx context.Context, exec repositories.SQLExecutor, playerID, goals, assists int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, row := range r.rows {
		if row.PlayerID == playerID {
			row.TotalGoals += goals
			row.TotalAssists += assists
			return id, nil
		}
	}
	return 0, repositories.ErrStatsNotFound
}

func (r *fakeStatsRepo) AppendLine(ctx context.Context, exec repositories.SQLExecutor, line *models.MatchStatLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	line.ID = len(r.lines) + 1
	r.lines = append(r.lines, *line)
	return nil
}

func (r *fakeStatsRepo) GetByPlayerID(ctx context.Context, playerID int) (*models.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.PlayerID == playerID {
			cp := *row
			return &cp, nil
		}
	}
	return nil, repositories.ErrStatsNotFound
}

func (r *fakeStatsRepo) ListByUserID(ctx context.Context, userID int) ([]models.PlayerStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.PlayerStats
	for _, row := range r.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *fakeStatsRepo) ListLines(ctx context.Context, statsID int) ([]models.MatchStatLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.MatchStatLine
	for _, l := range r.lines {
		if l.StatsID == statsID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeStatsRepo) ListByMatchIDs(ctx context.Context, matchIDs []int) ([]models.MatchStatLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		ids[id] = true
	}
	var out []models.MatchStatLine
	for _, l := range r.lines {
		if ids[l.MatchID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeStatsRepo) RemoveLinesByMatchIDs(ctx context.Context, exec repositories.SQLExecutor, matchIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[int]bool, len(matchIDs))
	for _, id := range matchIDs {
		ids[id] = true
	}
	kept := r.lines[:0]
	for _, l := range r.lines {
		if !ids[l.MatchID] {
			kept = append(kept, l)
		}
	}
	r.lines = kept
	return nil
}

func (r *fakeStatsRepo) AdjustTotals(ctx context.Context, exec repositories.SQLExecutor, statsID, goalsDelta, assistsDelta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[statsID]
	if !ok {
		return repositories.ErrStatsNotFound
	}
	row.TotalGoals += goalsDelta
	row.TotalAssists += assistsDelta
	return nil
}

func (r *fakeStatsRepo) DeleteByPlayerIDs(ctx context.Context, exec repositories.SQLExecutor, playerIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[int]bool, len(playerIDs))
	for _, id := range playerIDs {
		ids[id] = true
	}
	for id, row := range r.rows {
		if ids[row.PlayerID] {
			delete(r.rows, id)
		}
	}
	return nil
}
