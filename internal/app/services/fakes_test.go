package services

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/yigit/clubhub/internal/app/auth"
	"github.com/yigit/clubhub/internal/app/models"
	"github.com/yigit/clubhub/internal/domain"
	"github.com/yigit/clubhub/internal/pkg/apperrors"
)

// memStore is an in-memory stand-in for the Postgres schema. It keeps the
// same uniqueness rules and compare-and-set semantics as the repositories.
type memStore struct {
	mu sync.Mutex

	profiles map[uuid.UUID]models.Profile
	teams    map[uuid.UUID]models.Team
	members  map[uuid.UUID]models.TeamMember // keyed by user id
	events   map[int64]models.Event
	regs     map[int64]map[uuid.UUID]models.EventRegistration
	reports  []models.EventReport
	hours    map[uuid.UUID]models.HourRequest
	designs  map[uuid.UUID]models.DesignRequest

	nextEventID int64
	nextRegID   int64
}

func newMemStore() *memStore {
	return &memStore{
		profiles: make(map[uuid.UUID]models.Profile),
		teams:    make(map[uuid.UUID]models.Team),
		members:  make(map[uuid.UUID]models.TeamMember),
		events:   make(map[int64]models.Event),
		regs:     make(map[int64]map[uuid.UUID]models.EventRegistration),
		hours:    make(map[uuid.UUID]models.HourRequest),
		designs:  make(map[uuid.UUID]models.DesignRequest),
	}
}

// --- profiles ---

type memProfiles struct{ *memStore }

func (m memProfiles) Create(_ context.Context, p *models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[p.ID]; ok {
		return apperrors.ErrProfileAlreadyExists
	}
	if p.ClubRole == "" {
		p.ClubRole = domain.ClubRoleMember
	}
	p.CreatedAt, p.UpdatedAt = time.Now(), time.Now()
	m.profiles[p.ID] = *p
	return nil
}

func (m memProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	return &p, nil
}

func (m memProfiles) Update(_ context.Context, id uuid.UUID, c models.ProfileChanges) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	if c.FullName != nil {
		p.FullName = *c.FullName
	}
	if c.StudentID != nil {
		p.StudentID = c.StudentID
	}
	if c.College != nil {
		p.College = c.College
	}
	if c.Major != nil {
		p.Major = c.Major
	}
	if c.PhoneNumber != nil {
		p.PhoneNumber = c.PhoneNumber
	}
	m.profiles[id] = p
	return &p, nil
}

func (m memProfiles) UpdateAvatar(_ context.Context, id uuid.UUID, url string) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	p.AvatarURL = &url
	m.profiles[id] = p
	return &p, nil
}

func (m memProfiles) UpdateClubRole(_ context.Context, id uuid.UUID, role domain.ClubRole) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, apperrors.ErrProfileNotFound
	}
	p.ClubRole = role
	m.profiles[id] = p
	return &p, nil
}

func (m memProfiles) List(_ context.Context, offset, limit uint64) ([]models.Profile, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]models.Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FullName < all[j].FullName })
	total := int64(len(all))
	if offset >= uint64(len(all)) {
		return []models.Profile{}, total, nil
	}
	end := offset + limit
	if end > uint64(len(all)) {
		end = uint64(len(all))
	}
	return all[offset:end], total, nil
}

func (m memProfiles) UpsertCommitteeApplication(_ context.Context, app *models.CommitteeApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[app.UserID]
	if !ok {
		return apperrors.ErrProfileNotFound
	}
	committee := app.Committee
	p.Committee = &committee
	m.profiles[app.UserID] = p
	return nil
}

// --- teams ---

type memTeams struct{ *memStore }

func (m memTeams) Create(_ context.Context, t *models.Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.teams {
		if existing.Name == t.Name {
			return apperrors.NewConflictError("a team with this name already exists")
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.teams[t.ID] = *t
	return nil
}

func (m memTeams) GetByID(_ context.Context, id uuid.UUID) (*models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.teams[id]
	if !ok {
		return nil, apperrors.ErrTeamNotFound
	}
	return &t, nil
}

func (m memTeams) List(_ context.Context) ([]models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	teams := make([]models.Team, 0, len(m.teams))
	for _, t := range m.teams {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	return teams, nil
}

func (m memTeams) ListMembers(_ context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]models.TeamMember, 0)
	for _, tm := range m.members {
		if tm.TeamID == teamID {
			members = append(members, tm)
		}
	}
	return members, nil
}

func (m memTeams) GetMembership(_ context.Context, userID uuid.UUID) (*models.TeamMembership, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tm, ok := m.members[userID]
	if !ok {
		return nil, nil
	}
	team := m.teams[tm.TeamID]
	return &models.TeamMembership{
		TeamID:      tm.TeamID,
		Name:        team.Name,
		LeaderTitle: team.LeaderTitle,
		RoleInTeam:  tm.RoleInTeam,
	}, nil
}

func (m memTeams) SetMember(_ context.Context, teamID, userID uuid.UUID, role domain.TeamRole) (*models.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.teams[teamID]; !ok {
		return nil, apperrors.NewResourceNotFoundError("team or profile not found")
	}
	if existing, ok := m.members[userID]; ok && existing.TeamID != teamID {
		return nil, apperrors.ErrAlreadyInTeam
	}
	tm := models.TeamMember{TeamID: teamID, UserID: userID, RoleInTeam: role, JoinedAt: time.Now()}
	m.members[userID] = tm
	return &tm, nil
}

func (m memTeams) RemoveMember(_ context.Context, teamID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	tm, ok := m.members[userID]
	if !ok || tm.TeamID != teamID {
		return apperrors.NewResourceNotFoundError("team member not found")
	}
	delete(m.members, userID)
	return nil
}

func (m memTeams) LeaderIDs(_ context.Context, teamID uuid.UUID) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uuid.UUID
	for _, tm := range m.members {
		if tm.TeamID == teamID && tm.RoleInTeam == domain.TeamRoleLeader {
			ids = append(ids, tm.UserID)
		}
	}
	return ids, nil
}

// --- events ---

type memEvents struct{ *memStore }

func (m memEvents) withCount(e models.Event) *models.Event {
	e.AttendeeCount = len(m.regs[e.ID])
	return &e
}

func (m memEvents) Create(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextEventID++
	e.ID = m.nextEventID
	m.events[e.ID] = *e
	return nil
}

func (m memEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return m.withCount(e), nil
}

func (m memEvents) List(_ context.Context, f models.EventFilter) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := make([]models.Event, 0)
	for _, e := range m.events {
		if f.Upcoming != nil && *f.Upcoming != e.StartTime.After(f.Now) {
			continue
		}
		if f.Category != nil && e.Category != *f.Category {
			continue
		}
		events = append(events, *m.withCount(e))
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartTime.Before(events[j].StartTime) })
	return events, nil
}

func (m memEvents) Update(_ context.Context, e *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[e.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	m.events[e.ID] = *e
	return nil
}

func (m memEvents) UpdateCheckInCode(_ context.Context, id int64, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[id]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	e.CheckInCode = code
	m.events[id] = e
	return nil
}

func (m memEvents) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	delete(m.events, id)
	delete(m.regs, id)
	return nil
}

func (m memEvents) Register(_ context.Context, eventID int64, userID uuid.UUID, role domain.RegistrationRole) (*models.EventRegistration, *models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.events[eventID]
	if !ok {
		return nil, nil, apperrors.ErrEventNotFound
	}
	if _, ok := m.regs[eventID][userID]; ok {
		return nil, nil, apperrors.ErrAlreadyRegistered
	}
	if !domain.HasCapacity(e.MaxAttendees, len(m.regs[eventID])) {
		return nil, nil, apperrors.ErrEventFull
	}
	if m.regs[eventID] == nil {
		m.regs[eventID] = make(map[uuid.UUID]models.EventRegistration)
	}
	m.nextRegID++
	reg := models.EventRegistration{
		ID:           m.nextRegID,
		EventID:      eventID,
		UserID:       userID,
		Role:         role,
		Status:       domain.RegistrationRegistered,
		RegisteredAt: time.Now(),
		EventTitle:   e.Title,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
	}
	m.regs[eventID][userID] = reg
	return &reg, m.withCount(e), nil
}

func (m memEvents) GetRegistration(_ context.Context, eventID int64, userID uuid.UUID) (*models.EventRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.regs[eventID][userID]
	if !ok {
		return nil, nil
	}
	return &reg, nil
}

func (m memEvents) MarkAttended(_ context.Context, eventID int64, userID uuid.UUID, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.regs[eventID][userID]
	if !ok || reg.Status != domain.RegistrationRegistered {
		return false, nil
	}
	reg.Status = domain.RegistrationAttended
	reg.AttendedAt = &at
	m.regs[eventID][userID] = reg
	return true, nil
}

func (m memEvents) ListRegistrationsByUser(_ context.Context, userID uuid.UUID) ([]models.EventRegistration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	regs := make([]models.EventRegistration, 0)
	for _, byUser := range m.regs {
		if reg, ok := byUser[userID]; ok {
			regs = append(regs, reg)
		}
	}
	return regs, nil
}

func (m memEvents) ListAttendedEvents(_ context.Context, userID uuid.UUID) ([]models.AttendedEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	attended := make([]models.AttendedEvent, 0)
	for eventID, byUser := range m.regs {
		if reg, ok := byUser[userID]; ok && reg.Status == domain.RegistrationAttended {
			e := m.events[eventID]
			attended = append(attended, models.AttendedEvent{EventID: eventID, Title: e.Title, StartTime: e.StartTime, EndTime: e.EndTime})
		}
	}
	return attended, nil
}

func (m memEvents) ListParticipants(_ context.Context, eventID int64) ([]models.EventParticipant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	participants := make([]models.EventParticipant, 0)
	for userID, reg := range m.regs[eventID] {
		p := m.profiles[userID]
		participants = append(participants, models.EventParticipant{
			UserID:       userID,
			FullName:     p.FullName,
			Email:        p.Email,
			StudentID:    p.StudentID,
			Role:         reg.Role,
			Status:       reg.Status,
			RegisteredAt: reg.RegisteredAt,
			AttendedAt:   reg.AttendedAt,
		})
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i].FullName < participants[j].FullName })
	return participants, nil
}

func (m memEvents) CreateReport(_ context.Context, r *models.EventReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = int64(len(m.reports) + 1)
	r.CreatedAt = time.Now()
	m.reports = append(m.reports, *r)
	return nil
}

// --- hour requests ---

type memHours struct{ *memStore }

func (m memHours) decorate(h models.HourRequest) models.HourRequest {
	h.RequesterName = m.profiles[h.RequesterID].FullName
	if h.TeamID != nil {
		name := m.teams[*h.TeamID].Name
		h.TeamName = &name
	}
	return h
}

func (m memHours) Create(_ context.Context, h *models.HourRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.profiles[h.RequesterID]; !ok {
		return apperrors.ErrProfileNotFound
	}
	if err := domain.CheckHourInvariant(h.Status, h.AwardedHours); err != nil {
		return apperrors.NewValidationError("awardedHours", err.Error())
	}
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	m.hours[h.ID] = *h
	return nil
}

func (m memHours) GetByID(_ context.Context, id uuid.UUID) (*models.HourRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hours[id]
	if !ok {
		return nil, apperrors.ErrHourRequestNotFound
	}
	h = m.decorate(h)
	return &h, nil
}

func (m memHours) ListByRequester(_ context.Context, requesterID uuid.UUID) ([]models.HourRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.HourRequest, 0)
	for _, h := range m.hours {
		if h.RequesterID == requesterID {
			out = append(out, m.decorate(h))
		}
	}
	return out, nil
}

func (m memHours) ListForReview(_ context.Context, f models.HourRequestFilter) ([]models.HourRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.HourRequest, 0)
	for _, h := range m.hours {
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, h.Status) {
			continue
		}
		if f.TeamID != nil {
			tm, ok := m.members[h.RequesterID]
			if !ok || tm.TeamID != *f.TeamID {
				continue
			}
		}
		out = append(out, m.decorate(h))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m memHours) Review(_ context.Context, r models.HourReview) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hours[r.RequestID]
	if !ok || h.Status != domain.HourRequestPending {
		return false, nil
	}
	if r.RestrictToTeam != nil {
		tm, ok := m.members[h.RequesterID]
		if !ok || tm.TeamID != *r.RestrictToTeam {
			return false, nil
		}
	}
	if err := domain.CheckHourInvariant(r.Status, r.AwardedHours); err != nil {
		return false, apperrors.NewValidationError("awardedHours", err.Error())
	}
	now := time.Now()
	h.Status = r.Status
	h.AwardedHours = r.AwardedHours
	h.ReviewedBy = &r.ReviewerID
	h.ReviewedAt = &now
	h.Notes = r.Notes
	m.hours[r.RequestID] = h
	return true, nil
}

func (m memHours) ApprovedHours(_ context.Context, requesterID uuid.UUID) ([]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hours []float64
	for _, h := range m.hours {
		if h.RequesterID == requesterID && h.Status == domain.HourRequestApproved {
			hours = append(hours, *h.AwardedHours)
		}
	}
	return hours, nil
}

func containsStatus(statuses []domain.HourRequestStatus, s domain.HourRequestStatus) bool {
	for _, candidate := range statuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// --- design requests ---

type memDesigns struct{ *memStore }

func (m memDesigns) Create(_ context.Context, d *models.DesignRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	d.Status = domain.DesignNew
	d.CreatedAt = time.Now()
	m.designs[d.ID] = *d
	return nil
}

func (m memDesigns) GetByID(_ context.Context, id uuid.UUID) (*models.DesignRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[id]
	if !ok {
		return nil, apperrors.ErrDesignRequestNotFound
	}
	return &d, nil
}

func (m memDesigns) ListByRequester(_ context.Context, requesterID uuid.UUID) ([]models.DesignRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.DesignRequest, 0)
	for _, d := range m.designs {
		if d.RequesterID == requesterID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m memDesigns) ListByStatus(_ context.Context, statuses []domain.DesignStatus, assignee *uuid.UUID) ([]models.DesignRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.DesignRequest, 0)
	for _, d := range m.designs {
		matched := false
		for _, s := range statuses {
			if d.Status == s {
				matched = true
			}
		}
		if !matched {
			continue
		}
		if assignee != nil && (d.AssignedTo == nil || *d.AssignedTo != *assignee) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m memDesigns) Transition(_ context.Context, t models.DesignTransition) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.designs[t.RequestID]
	if !ok {
		return false, nil
	}
	matched := false
	for _, s := range t.From {
		if d.Status == s {
			matched = true
		}
	}
	if !matched {
		return false, nil
	}
	if t.RequireAssignee != nil && (d.AssignedTo == nil || *d.AssignedTo != *t.RequireAssignee) {
		return false, nil
	}
	d.Status = t.To
	if t.AssignTo != nil {
		assignee := *t.AssignTo
		d.AssignedTo = &assignee
	}
	if t.DesignURL != nil {
		d.DesignURL = t.DesignURL
	}
	if t.FeedbackNotes != nil {
		d.FeedbackNotes = t.FeedbackNotes
	}
	m.designs[t.RequestID] = d
	return true, nil
}

// --- notifications ---

type notification struct {
	kind   string
	target uuid.UUID
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) record(kind string, id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{kind: kind, target: id})
}

func (n *recordingNotifier) HourRequestSubmitted(_ context.Context, req *models.HourRequest) {
	n.record("submitted", req.ID)
}

func (n *recordingNotifier) HourRequestReviewed(_ context.Context, req *models.HourRequest) {
	n.record("reviewed", req.ID)
}

func (n *recordingNotifier) DesignRequestUpdated(_ context.Context, req *models.DesignRequest, _ uuid.UUID) {
	n.record("design:"+string(req.Status), req.ID)
}

func (n *recordingNotifier) kinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	kinds := make([]string, 0, len(n.sent))
	for _, s := range n.sent {
		kinds = append(kinds, s.kind)
	}
	return kinds
}

// --- fixture ---

type fixture struct {
	store    *memStore
	authz    *auth.AuthorizationService
	notifier *recordingNotifier
	logger   zerolog.Logger
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store:    store,
		authz:    auth.NewAuthorizationService(memProfiles{store}, memTeams{store}),
		notifier: &recordingNotifier{},
		logger:   zerolog.Nop(),
	}
}

func (f *fixture) addProfile(t *testing.T, name string, role domain.ClubRole) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, memProfiles{f.store}.Create(context.Background(), &models.Profile{
		ID:       id,
		FullName: name,
		Email:    name + "@club.example",
		ClubRole: role,
	}))
	return id
}

func (f *fixture) addTeam(t *testing.T, name string) uuid.UUID {
	t.Helper()
	team := &models.Team{Name: name}
	require.NoError(t, memTeams{f.store}.Create(context.Background(), team))
	return team.ID
}

func (f *fixture) join(t *testing.T, teamID, userID uuid.UUID, role domain.TeamRole) {
	t.Helper()
	_, err := memTeams{f.store}.SetMember(context.Background(), teamID, userID, role)
	require.NoError(t, err)
}

func (f *fixture) actor(t *testing.T, userID uuid.UUID) *auth.Actor {
	t.Helper()
	actor, err := f.authz.ResolveActor(context.Background(), userID)
	require.NoError(t, err)
	return actor
}

func (f *fixture) hourService() HourRequestService {
	return NewHourRequestService(memHours{f.store}, memProfiles{f.store}, memTeams{f.store}, FileUploads{}, f.authz, f.notifier, nil, f.logger)
}

func (f *fixture) designService() DesignRequestService {
	return NewDesignRequestService(memDesigns{f.store}, FileUploads{}, f.authz, f.notifier, nil, f.logger)
}

func (f *fixture) profileService() ProfileService {
	return NewProfileService(nil, memProfiles{f.store}, memTeams{f.store}, memEvents{f.store}, memHours{f.store}, FileUploads{}, f.authz, f.logger)
}

func ptr[T any](v T) *T {
	return &v
}
