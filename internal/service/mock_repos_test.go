package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"vanguard-hq/backend/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("user-%03d", m.seq)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByCallsign(_ context.Context, callsign string) (*model.User, error) {
	for _, u := range m.users {
		if u.Callsign == callsign {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) List(_ context.Context, status string, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		if status != "" && u.Status != status {
			continue
		}
		result = append(result, *u)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockUserRepo) ListActive(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Status == model.UserStatusActive {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock RankRepository ──

type mockRankRepo struct {
	ranks   map[string]*model.Rank
	history map[string]*model.UserRankHistory
	seq     int
}

func newMockRankRepo() *mockRankRepo {
	return &mockRankRepo{
		ranks:   make(map[string]*model.Rank),
		history: make(map[string]*model.UserRankHistory),
	}
}

func (m *mockRankRepo) Create(_ context.Context, rank *model.Rank) error {
	if rank.RankID == "" {
		rank.RankID = "rank-" + rank.Code
	}
	m.ranks[rank.RankID] = rank
	return nil
}

func (m *mockRankRepo) GetByID(_ context.Context, id string) (*model.Rank, error) {
	if r, ok := m.ranks[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRankRepo) List(_ context.Context, branch string) ([]model.Rank, error) {
	var result []model.Rank
	for _, r := range m.ranks {
		if branch != "" && r.Branch != branch {
			continue
		}
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRankRepo) Update(_ context.Context, rank *model.Rank) error {
	m.ranks[rank.RankID] = rank
	return nil
}

func (m *mockRankRepo) Delete(_ context.Context, id string) error {
	delete(m.ranks, id)
	return nil
}

func (m *mockRankRepo) CountHolders(_ context.Context, rankID string) (int64, error) {
	var count int64
	for _, h := range m.history {
		if h.RankID == rankID && h.DateEnded == nil {
			count++
		}
	}
	return count, nil
}

func (m *mockRankRepo) GetNextRank(_ context.Context, branch string, aboveTier int) (*model.Rank, error) {
	var best *model.Rank
	for _, r := range m.ranks {
		if r.Branch != branch || r.Tier <= aboveTier {
			continue
		}
		if best == nil || r.Tier < best.Tier {
			best = r
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (m *mockRankRepo) CreateHistory(_ context.Context, entry *model.UserRankHistory) error {
	if entry.HistoryID == "" {
		m.seq++
		entry.HistoryID = fmt.Sprintf("hist-%03d", m.seq)
	}
	m.history[entry.HistoryID] = entry
	return nil
}

func (m *mockRankRepo) GetOpenHistory(_ context.Context, userID string) (*model.UserRankHistory, error) {
	for _, h := range m.history {
		if h.UserID == userID && h.DateEnded == nil {
			return h, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRankRepo) GetLatestForRank(_ context.Context, userID, rankID string) (*model.UserRankHistory, error) {
	var latest *model.UserRankHistory
	for _, h := range m.history {
		if h.UserID != userID || h.RankID != rankID {
			continue
		}
		if latest == nil || h.DateStarted.After(latest.DateStarted) {
			latest = h
		}
	}
	if latest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return latest, nil
}

func (m *mockRankRepo) UpdateHistory(_ context.Context, entry *model.UserRankHistory) error {
	m.history[entry.HistoryID] = entry
	return nil
}

func (m *mockRankRepo) ListHistory(_ context.Context, userID string) ([]model.UserRankHistory, error) {
	var result []model.UserRankHistory
	for _, h := range m.history {
		if h.UserID == userID {
			entry := *h
			if r, ok := m.ranks[h.RankID]; ok {
				entry.Rank = r
			}
			result = append(result, entry)
		}
	}
	return result, nil
}

// ── Mock UnitRepository ──

type mockUnitRepo struct {
	units       map[string]*model.Unit
	positions   map[string]*model.Position
	assignments map[string]*model.UserPosition
	seq         int
}

func newMockUnitRepo() *mockUnitRepo {
	return &mockUnitRepo{
		units:       make(map[string]*model.Unit),
		positions:   make(map[string]*model.Position),
		assignments: make(map[string]*model.UserPosition),
	}
}

func (m *mockUnitRepo) Create(_ context.Context, unit *model.Unit) error {
	if unit.UnitID == "" {
		unit.UnitID = "unit-" + unit.Name
	}
	m.units[unit.UnitID] = unit
	return nil
}

func (m *mockUnitRepo) GetByID(_ context.Context, id string) (*model.Unit, error) {
	if u, ok := m.units[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnitRepo) List(_ context.Context) ([]model.Unit, error) {
	var result []model.Unit
	for _, u := range m.units {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUnitRepo) Update(_ context.Context, unit *model.Unit) error {
	m.units[unit.UnitID] = unit
	return nil
}

func (m *mockUnitRepo) Delete(_ context.Context, id, _ string) error {
	delete(m.units, id)
	return nil
}

func (m *mockUnitRepo) CreatePosition(_ context.Context, pos *model.Position) error {
	if pos.PositionID == "" {
		pos.PositionID = "pos-" + pos.Title
	}
	m.positions[pos.PositionID] = pos
	return nil
}

func (m *mockUnitRepo) GetPosition(_ context.Context, id string) (*model.Position, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnitRepo) ListPositions(_ context.Context, unitID string) ([]model.Position, error) {
	var result []model.Position
	for _, p := range m.positions {
		if unitID != "" && p.UnitID != unitID {
			continue
		}
		result = append(result, *p)
	}
	return result, nil
}

func (m *mockUnitRepo) UpdatePosition(_ context.Context, pos *model.Position) error {
	m.positions[pos.PositionID] = pos
	return nil
}

func (m *mockUnitRepo) DeletePosition(_ context.Context, id string) error {
	delete(m.positions, id)
	return nil
}

func (m *mockUnitRepo) CreateAssignment(_ context.Context, up *model.UserPosition) error {
	if up.UserPositionID == "" {
		m.seq++
		up.UserPositionID = fmt.Sprintf("assign-%03d", m.seq)
	}
	m.assignments[up.UserPositionID] = up
	return nil
}

func (m *mockUnitRepo) GetAssignment(_ context.Context, id string) (*model.UserPosition, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUnitRepo) UpdateAssignment(_ context.Context, up *model.UserPosition) error {
	m.assignments[up.UserPositionID] = up
	return nil
}

func (m *mockUnitRepo) ListUserAssignments(_ context.Context, userID string) ([]model.UserPosition, error) {
	var result []model.UserPosition
	for _, a := range m.assignments {
		if a.UserID != userID {
			continue
		}
		entry := *a
		if p, ok := m.positions[a.PositionID]; ok {
			entry.Position = p
		}
		result = append(result, entry)
	}
	return result, nil
}

func (m *mockUnitRepo) ListOpenByPosition(_ context.Context, positionID string) ([]model.UserPosition, error) {
	var result []model.UserPosition
	for _, a := range m.assignments {
		if a.PositionID == positionID && a.EndDate == nil {
			result = append(result, *a)
		}
	}
	return result, nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events     map[string]*model.Event
	attendance map[string]*model.EventAttendance
	seq        int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{
		events:     make(map[string]*model.Event),
		attendance: make(map[string]*model.EventAttendance),
	}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	if event.EventID == "" {
		m.seq++
		event.EventID = fmt.Sprintf("event-%03d", m.seq)
	}
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) List(_ context.Context, eventType string, offset, limit int) ([]model.Event, int64, error) {
	var result []model.Event
	for _, e := range m.events {
		if eventType != "" && e.EventType != eventType {
			continue
		}
		result = append(result, *e)
	}
	total := int64(len(result))
	if offset >= len(result) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(result) {
		end = len(result)
	}
	return result[offset:end], total, nil
}

func (m *mockEventRepo) ListUpcoming(_ context.Context, from time.Time) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		if !e.StartTime.Before(from) {
			result = append(result, *e)
		}
	}
	return result, nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	m.events[event.EventID] = event
	return nil
}

func (m *mockEventRepo) Delete(_ context.Context, id, _ string) error {
	delete(m.events, id)
	return nil
}

func (m *mockEventRepo) GetAttendance(_ context.Context, eventID, userID string) (*model.EventAttendance, error) {
	for _, a := range m.attendance {
		if a.EventID == eventID && a.UserID == userID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) CreateAttendance(_ context.Context, att *model.EventAttendance) error {
	if att.AttendanceID == "" {
		m.seq++
		att.AttendanceID = fmt.Sprintf("att-%03d", m.seq)
	}
	m.attendance[att.AttendanceID] = att
	return nil
}

func (m *mockEventRepo) UpdateAttendance(_ context.Context, att *model.EventAttendance) error {
	m.attendance[att.AttendanceID] = att
	return nil
}

func (m *mockEventRepo) ListAttendance(_ context.Context, eventID string) ([]model.EventAttendance, error) {
	var result []model.EventAttendance
	for _, a := range m.attendance {
		if a.EventID == eventID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (m *mockEventRepo) CountConfirmedDeployments(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, a := range m.attendance {
		if a.UserID != userID || a.Status != model.AttendanceAttending || a.CheckInTime == nil {
			continue
		}
		if e, ok := m.events[a.EventID]; ok && e.EventType == model.EventTypeDeployment {
			count++
		}
	}
	return count, nil
}

// ── Mock CertificationRepository ──

type mockCertificationRepo struct {
	certs     map[string]*model.Certification
	userCerts map[string]*model.UserCertificate
	seq       int
}

func newMockCertificationRepo() *mockCertificationRepo {
	return &mockCertificationRepo{
		certs:     make(map[string]*model.Certification),
		userCerts: make(map[string]*model.UserCertificate),
	}
}

func (m *mockCertificationRepo) Create(_ context.Context, cert *model.Certification) error {
	if cert.CertificationID == "" {
		cert.CertificationID = "cert-" + cert.Code
	}
	m.certs[cert.CertificationID] = cert
	return nil
}

func (m *mockCertificationRepo) GetByID(_ context.Context, id string) (*model.Certification, error) {
	if c, ok := m.certs[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCertificationRepo) List(_ context.Context) ([]model.Certification, error) {
	var result []model.Certification
	for _, c := range m.certs {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCertificationRepo) Update(_ context.Context, cert *model.Certification) error {
	m.certs[cert.CertificationID] = cert
	return nil
}

func (m *mockCertificationRepo) Delete(_ context.Context, id string) error {
	delete(m.certs, id)
	return nil
}

func (m *mockCertificationRepo) CreateUserCertificate(_ context.Context, uc *model.UserCertificate) error {
	if uc.UserCertificateID == "" {
		m.seq++
		uc.UserCertificateID = fmt.Sprintf("uc-%03d", m.seq)
	}
	m.userCerts[uc.UserCertificateID] = uc
	return nil
}

func (m *mockCertificationRepo) GetUserCertificate(_ context.Context, id string) (*model.UserCertificate, error) {
	if uc, ok := m.userCerts[id]; ok {
		return uc, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCertificationRepo) UpdateUserCertificate(_ context.Context, uc *model.UserCertificate) error {
	m.userCerts[uc.UserCertificateID] = uc
	return nil
}

func (m *mockCertificationRepo) ListUserCertificates(_ context.Context, userID string) ([]model.UserCertificate, error) {
	var result []model.UserCertificate
	for _, uc := range m.userCerts {
		if uc.UserID == userID {
			result = append(result, *uc)
		}
	}
	return result, nil
}

func (m *mockCertificationRepo) HasActiveCertificate(_ context.Context, userID, certificationID string) (bool, error) {
	now := time.Now()
	for _, uc := range m.userCerts {
		if uc.UserID != userID || uc.CertificationID != certificationID || !uc.IsActive {
			continue
		}
		if uc.ExpiryDate == nil || uc.ExpiryDate.After(now) {
			return true, nil
		}
	}
	return false, nil
}

// ── Mock PromotionRepository ──

type mockPromotionRepo struct {
	types        map[string]*model.RequirementType
	requirements map[string]*model.RankRequirement
	progress     map[string]*model.UserPromotionProgress
	waivers      map[string]*model.PromotionWaiver
	seq          int
}

func newMockPromotionRepo() *mockPromotionRepo {
	return &mockPromotionRepo{
		types:        make(map[string]*model.RequirementType),
		requirements: make(map[string]*model.RankRequirement),
		progress:     make(map[string]*model.UserPromotionProgress),
		waivers:      make(map[string]*model.PromotionWaiver),
	}
}

func (m *mockPromotionRepo) CreateType(_ context.Context, rt *model.RequirementType) error {
	if rt.RequirementTypeID == "" {
		rt.RequirementTypeID = "rt-" + rt.Code
	}
	m.types[rt.RequirementTypeID] = rt
	return nil
}

func (m *mockPromotionRepo) GetType(_ context.Context, id string) (*model.RequirementType, error) {
	if rt, ok := m.types[id]; ok {
		return rt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPromotionRepo) GetTypeByCode(_ context.Context, code string) (*model.RequirementType, error) {
	for _, rt := range m.types {
		if rt.Code == code {
			return rt, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPromotionRepo) ListTypes(_ context.Context) ([]model.RequirementType, error) {
	var result []model.RequirementType
	for _, rt := range m.types {
		result = append(result, *rt)
	}
	return result, nil
}

func (m *mockPromotionRepo) CreateRequirement(_ context.Context, req *model.RankRequirement) error {
	if req.RequirementID == "" {
		m.seq++
		req.RequirementID = fmt.Sprintf("req-%03d", m.seq)
	}
	m.requirements[req.RequirementID] = req
	return nil
}

func (m *mockPromotionRepo) GetRequirement(_ context.Context, id string) (*model.RankRequirement, error) {
	if r, ok := m.requirements[id]; ok {
		entry := *r
		if rt, ok := m.types[r.RequirementTypeID]; ok {
			entry.RequirementType = rt
		}
		return &entry, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPromotionRepo) ListRequirements(_ context.Context, rankID string) ([]model.RankRequirement, error) {
	var result []model.RankRequirement
	for _, r := range m.requirements {
		if r.RankID != rankID {
			continue
		}
		entry := *r
		if rt, ok := m.types[r.RequirementTypeID]; ok {
			entry.RequirementType = rt
		}
		result = append(result, entry)
	}
	return result, nil
}

func (m *mockPromotionRepo) UpdateRequirement(_ context.Context, req *model.RankRequirement) error {
	m.requirements[req.RequirementID] = req
	return nil
}

func (m *mockPromotionRepo) DeleteRequirement(_ context.Context, id string) error {
	delete(m.requirements, id)
	return nil
}

func (m *mockPromotionRepo) GetProgress(_ context.Context, userID string) (*model.UserPromotionProgress, error) {
	if p, ok := m.progress[userID]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPromotionRepo) SaveProgress(_ context.Context, progress *model.UserPromotionProgress) error {
	m.progress[progress.UserID] = progress
	return nil
}

func (m *mockPromotionRepo) DeleteProgress(_ context.Context, userID string) error {
	delete(m.progress, userID)
	return nil
}

func (m *mockPromotionRepo) CreateWaiver(_ context.Context, waiver *model.PromotionWaiver) error {
	if waiver.WaiverID == "" {
		m.seq++
		waiver.WaiverID = fmt.Sprintf("waiver-%03d", m.seq)
	}
	m.waivers[waiver.WaiverID] = waiver
	return nil
}

func (m *mockPromotionRepo) GetWaiver(_ context.Context, id string) (*model.PromotionWaiver, error) {
	if w, ok := m.waivers[id]; ok {
		return w, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPromotionRepo) UpdateWaiver(_ context.Context, waiver *model.PromotionWaiver) error {
	m.waivers[waiver.WaiverID] = waiver
	return nil
}

func (m *mockPromotionRepo) ListWaivers(_ context.Context, userID string) ([]model.PromotionWaiver, error) {
	var result []model.PromotionWaiver
	for _, w := range m.waivers {
		if w.UserID == userID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (m *mockPromotionRepo) ListActiveWaivers(_ context.Context, userID string) ([]model.PromotionWaiver, error) {
	now := time.Now()
	var result []model.PromotionWaiver
	for _, w := range m.waivers {
		if w.UserID != userID || !w.IsActive {
			continue
		}
		if w.ExpiresAt != nil && !w.ExpiresAt.After(now) {
			continue
		}
		result = append(result, *w)
	}
	return result, nil
}

func (m *mockPromotionRepo) GetActiveWaiver(_ context.Context, userID, requirementID string) (*model.PromotionWaiver, error) {
	for _, w := range m.waivers {
		if w.UserID == userID && w.RequirementID == requirementID && w.IsActive {
			return w, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}
