package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/model"
	"vanguard-hq/backend/internal/repository"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type promotionFixture struct {
	svc    *promotionService
	users  *mockUserRepo
	ranks  *mockRankRepo
	units  *mockUnitRepo
	events *mockEventRepo
	certs  *mockCertificationRepo
	promos *mockPromotionRepo
}

func newPromotionFixture() *promotionFixture {
	f := &promotionFixture{
		users:  newMockUserRepo(),
		ranks:  newMockRankRepo(),
		units:  newMockUnitRepo(),
		events: newMockEventRepo(),
		certs:  newMockCertificationRepo(),
		promos: newMockPromotionRepo(),
	}
	repo := &repository.Repository{
		User:          f.users,
		Rank:          f.ranks,
		Unit:          f.units,
		Event:         f.events,
		Certification: f.certs,
		Promotion:     f.promos,
	}
	f.svc = NewPromotionService(repo, zap.NewNop()).(*promotionService)
	f.svc.now = func() time.Time { return testNow }
	return f
}

// seedLadder creates a two-step marine ladder and returns both ranks.
func (f *promotionFixture) seedLadder() (recruit, corporal *model.Rank) {
	ctx := context.Background()
	recruit = &model.Rank{Code: "RCT", Name: "Recruit", Branch: "marines", Tier: 1}
	corporal = &model.Rank{Code: "CPL", Name: "Corporal", Branch: "marines", Tier: 2}
	f.ranks.Create(ctx, recruit)
	f.ranks.Create(ctx, corporal)
	return recruit, corporal
}

// seedUser creates an active marine holding the given rank who joined
// joinDaysAgo days before the fixture clock.
func (f *promotionFixture) seedUser(rank *model.Rank, joinDaysAgo int) *model.User {
	join := testNow.AddDate(0, 0, -joinDaysAgo)
	user := &model.User{
		Callsign: "Reaper",
		Email:    "reaper@vanguard.example",
		Branch:   "marines",
		Status:   model.UserStatusActive,
		JoinDate: &join,
	}
	if rank != nil {
		user.CurrentRankID = &rank.RankID
		user.CurrentRank = rank
	}
	f.users.Create(context.Background(), user)
	return user
}

// addRequirement attaches a mandatory requirement of the given
// evaluation type to a rank, creating the catalog type on first use.
func (f *promotionFixture) addRequirement(rankID, evalType string, required float64) *model.RankRequirement {
	ctx := context.Background()
	rt, err := f.promos.GetTypeByCode(ctx, evalType)
	if err != nil {
		rt = &model.RequirementType{
			Code:           evalType,
			Name:           evalType,
			Category:       model.ReqCategoryTime,
			EvaluationType: evalType,
		}
		f.promos.CreateType(ctx, rt)
	}
	req := &model.RankRequirement{
		RankID:            rankID,
		RequirementTypeID: rt.RequirementTypeID,
		RequiredValue:     required,
		IsMandatory:       true,
		WaiverAuthority:   model.RoleAdmin,
	}
	f.promos.CreateRequirement(ctx, req)
	return req
}

func findResult(t *testing.T, resp *dto.PromotionProgressResponse, reqID string) dto.RequirementResultResponse {
	t.Helper()
	for _, r := range resp.Requirements {
		if r.RequirementID == reqID {
			return r
		}
	}
	t.Fatalf("requirement %s not present in progress response", reqID)
	return dto.RequirementResultResponse{}
}

// ── Evaluator ──

func TestGetProgressTimeInService(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 400)
	req := f.addRequirement(corporal.RankID, model.EvalTimeInService, 365)

	resp, err := f.svc.GetProgress(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if resp.NextRank.ID != corporal.RankID {
		t.Errorf("next rank = %s, want %s", resp.NextRank.ID, corporal.RankID)
	}
	result := findResult(t, resp, req.RequirementID)
	if !result.Met {
		t.Error("expected time_in_service requirement met after 400 days")
	}
	if result.CurrentValue != "400" {
		t.Errorf("current value = %q, want 400", result.CurrentValue)
	}
	if !resp.OverallEligible || resp.EligibilityPercentage != 100 {
		t.Errorf("eligible=%v pct=%v, want eligible at 100%%", resp.OverallEligible, resp.EligibilityPercentage)
	}
}

func TestGetProgressCachesSnapshot(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 100)
	req := f.addRequirement(corporal.RankID, model.EvalTimeInService, 365)

	if _, err := f.svc.GetProgress(context.Background(), user.UserID); err != nil {
		t.Fatalf("GetProgress: %v", err)
	}

	snap, err := f.promos.GetProgress(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("snapshot not persisted: %v", err)
	}
	if snap.NextRankID != corporal.RankID {
		t.Errorf("snapshot next rank = %s, want %s", snap.NextRankID, corporal.RankID)
	}
	if snap.OverallEligible {
		t.Error("snapshot should record ineligibility at 100 of 365 days")
	}
	entry, ok := snap.RequirementsMet[req.RequirementID]
	if !ok {
		t.Fatal("snapshot missing requirement entry")
	}
	if entry.Met || entry.CurrentValue != 100 {
		t.Errorf("snapshot entry = %+v, want unmet at 100", entry)
	}
	if !snap.LastEvaluatedAt.Equal(testNow) {
		t.Errorf("last evaluated = %v, want fixture clock", snap.LastEvaluatedAt)
	}
}

func TestGetProgressIsIdempotent(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 200)
	f.addRequirement(corporal.RankID, model.EvalTimeInService, 365)
	f.addRequirement(corporal.RankID, model.EvalTimeInGrade, 90)

	first, err := f.svc.GetProgress(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("first GetProgress: %v", err)
	}
	second, err := f.svc.GetProgress(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("second GetProgress: %v", err)
	}
	if first.EligibilityPercentage != second.EligibilityPercentage {
		t.Errorf("percentage changed between identical evaluations: %v vs %v",
			first.EligibilityPercentage, second.EligibilityPercentage)
	}
	if first.OverallEligible != second.OverallEligible {
		t.Error("eligibility changed between identical evaluations")
	}
}

func TestEvaluateTimeInGrade(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 600)
	req := f.addRequirement(corporal.RankID, model.EvalTimeInGrade, 180)

	f.ranks.CreateHistory(context.Background(), &model.UserRankHistory{
		UserID:      user.UserID,
		RankID:      recruit.RankID,
		DateStarted: testNow.AddDate(0, 0, -200),
	})

	resp, err := f.svc.GetProgress(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	result := findResult(t, resp, req.RequirementID)
	if !result.Met || result.CurrentValue != "200" {
		t.Errorf("time_in_grade = met:%v value:%s, want met at 200", result.Met, result.CurrentValue)
	}
}

func TestEvaluateTimeInGradeNoHistory(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 600)
	req := f.addRequirement(corporal.RankID, model.EvalTimeInGrade, 180)

	resp, err := f.svc.GetProgress(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	result := findResult(t, resp, req.RequirementID)
	if result.Met || result.CurrentValue != "0" {
		t.Errorf("missing history should evaluate to unmet zero, got met:%v value:%s", result.Met, result.CurrentValue)
	}
}

func TestEvaluateLeadershipTimeCountsBilletOnce(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 600)
	req := f.addRequirement(corporal.RankID, model.EvalLeadershipTime, 90)

	ctx := context.Background()
	// A billet flagged both NCO and command must not be double counted.
	lead := &model.Position{UnitID: "unit-1", Title: "Squad Leader", RoleCategory: model.RoleCategoryNCO, IsNCO: true, IsCommand: true}
	grunt := &model.Position{UnitID: "unit-1", Title: "Rifleman", RoleCategory: model.RoleCategoryMember}
	f.units.CreatePosition(ctx, lead)
	f.units.CreatePosition(ctx, grunt)

	end := testNow.AddDate(0, 0, -50)
	f.units.CreateAssignment(ctx, &model.UserPosition{
		UserID:     user.UserID,
		PositionID: lead.PositionID,
		StartDate:  testNow.AddDate(0, 0, -150),
		EndDate:    &end,
	})
	f.units.CreateAssignment(ctx, &model.UserPosition{
		UserID:     user.UserID,
		PositionID: grunt.PositionID,
		StartDate:  testNow.AddDate(0, 0, -400),
	})

	resp, err := f.svc.GetProgress(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	result := findResult(t, resp, req.RequirementID)
	if result.CurrentValue != "100" {
		t.Errorf("leadership days = %s, want 100 (single count, member span excluded)", result.CurrentValue)
	}
	if !result.Met {
		t.Error("100 leadership days should satisfy a 90-day requirement")
	}
}

func TestEvaluateTimeInPositionType(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 600)

	req := f.addRequirement(corporal.RankID, model.EvalTimeInPositionType, 60)
	category := model.RoleCategoryNCO
	req.PositionCategory = &category

	ctx := context.Background()
	nco := &model.Position{UnitID: "unit-1", Title: "Fireteam Leader", RoleCategory: model.RoleCategoryNCO, IsNCO: true}
	f.units.CreatePosition(ctx, nco)
	f.units.CreateAssignment(ctx, &model.UserPosition{
		UserID:     user.UserID,
		PositionID: nco.PositionID,
		StartDate:  testNow.AddDate(0, 0, -75),
	})

	resp, err := f.svc.GetProgress(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	result := findResult(t, resp, req.RequirementID)
	if !result.Met || result.CurrentValue != "75" {
		t.Errorf("time in nco billets = met:%v value:%s, want met at 75", result.Met, result.CurrentValue)
	}
}

func TestEvaluateCertificationRequired(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 600)

	ctx := context.Background()
	cert := &model.Certification{Code: "LEAD-1", Name: "Basic Leadership"}
	f.certs.Create(ctx, cert)

	req := f.addRequirement(corporal.RankID, model.EvalCertificationNeeded, 1)
	req.CertificationID = &cert.CertificationID

	resp, err := f.svc.GetProgress(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if result := findResult(t, resp, req.RequirementID); result.Met || result.CurrentValue != "0" {
		t.Errorf("uncertified user = met:%v value:%s, want unmet zero", result.Met, result.CurrentValue)
	}

	f.certs.CreateUserCertificate(ctx, &model.UserCertificate{
		UserID:          user.UserID,
		CertificationID: cert.CertificationID,
		IssueDate:       testNow.AddDate(0, 0, -10),
		IsActive:        true,
	})

	resp, err = f.svc.GetProgress(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetProgress after award: %v", err)
	}
	if result := findResult(t, resp, req.RequirementID); !result.Met || result.CurrentValue != "1" {
		t.Errorf("certified user = met:%v value:%s, want met one", result.Met, result.CurrentValue)
	}
}

func TestEvaluateDeploymentsCount(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 600)
	req := f.addRequirement(corporal.RankID, model.EvalDeploymentsCount, 2)

	ctx := context.Background()
	checkIn := testNow.AddDate(0, 0, -5)
	for i, eventType := range []string{model.EventTypeDeployment, model.EventTypeDeployment, model.EventTypeTraining} {
		event := &model.Event{Title: "Op", EventType: eventType, StartTime: checkIn, EndTime: checkIn.Add(2 * time.Hour)}
		f.events.Create(ctx, event)
		att := &model.EventAttendance{EventID: event.EventID, UserID: user.UserID, Status: model.AttendanceAttending}
		if i != 1 {
			att.CheckInTime = &checkIn
		}
		f.events.CreateAttendance(ctx, att)
	}

	resp, err := f.svc.GetProgress(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	// One checked-in deployment; the un-checked deployment RSVP and the
	// training check-in must not count.
	result := findResult(t, resp, req.RequirementID)
	if result.Met || result.CurrentValue != "1" {
		t.Errorf("deployments = met:%v value:%s, want unmet at 1", result.Met, result.CurrentValue)
	}
}

func TestUnknownEvaluationTypeFailsLoudly(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 600)

	ctx := context.Background()
	rogue := &model.RequirementType{Code: "merit", Name: "Merit Points", Category: model.ReqCategoryPerformance, EvaluationType: "merit_points"}
	f.promos.CreateType(ctx, rogue)
	f.promos.CreateRequirement(ctx, &model.RankRequirement{
		RankID:            corporal.RankID,
		RequirementTypeID: rogue.RequirementTypeID,
		RequiredValue:     10,
		IsMandatory:       true,
	})

	if _, err := f.svc.GetProgress(ctx, user.UserID); !errors.Is(err, ErrUnknownEvaluationType) {
		t.Fatalf("expected ErrUnknownEvaluationType, got %v", err)
	}
}

func TestNoHigherRank(t *testing.T) {
	f := newPromotionFixture()
	_, corporal := f.seedLadder()
	user := f.seedUser(corporal, 600)

	if _, err := f.svc.GetProgress(context.Background(), user.UserID); !errors.Is(err, ErrNoNextRank) {
		t.Fatalf("expected ErrNoNextRank at ladder top, got %v", err)
	}
}

// ── OR groups ──

func TestRequirementGroupCountsAsOneUnit(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 100)

	group := "path-to-nco"
	easy := f.addRequirement(corporal.RankID, model.EvalTimeInService, 50)
	easy.IsMandatory = false
	easy.RequirementGroup = &group
	hard := f.addRequirement(corporal.RankID, model.EvalTimeInService, 500)
	hard.IsMandatory = false
	hard.RequirementGroup = &group

	resp, err := f.svc.GetProgress(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if !resp.OverallEligible {
		t.Error("one met member should satisfy the whole group")
	}
	if resp.EligibilityPercentage != 100 {
		t.Errorf("percentage = %v, want 100 (group is a single unit)", resp.EligibilityPercentage)
	}
}

func TestUnmetGroupReportsAllMembers(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 10)

	group := "path-to-nco"
	a := f.addRequirement(corporal.RankID, model.EvalTimeInService, 400)
	a.IsMandatory = false
	a.RequirementGroup = &group
	b := f.addRequirement(corporal.RankID, model.EvalTimeInService, 500)
	b.IsMandatory = false
	b.RequirementGroup = &group

	_, err := f.svc.Promote(context.Background(), &dto.PromoteRequest{
		UserID:    user.UserID,
		NewRankID: corporal.RankID,
	}, "officer-1")

	var notMet *RequirementsNotMetError
	if !errors.As(err, &notMet) {
		t.Fatalf("expected RequirementsNotMetError, got %v", err)
	}
	unmet := map[string]bool{}
	for _, id := range notMet.UnmetIDs {
		unmet[id] = true
	}
	if !unmet[a.RequirementID] || !unmet[b.RequirementID] {
		t.Errorf("unmet ids %v should list every member of the failed group", notMet.UnmetIDs)
	}
}

func TestPartialProgressPercentage(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 200)
	f.addRequirement(corporal.RankID, model.EvalTimeInService, 100) // met
	f.addRequirement(corporal.RankID, model.EvalTimeInService, 300) // unmet

	resp, err := f.svc.GetProgress(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if resp.OverallEligible {
		t.Error("half-met requirements must not be eligible")
	}
	if resp.EligibilityPercentage != 50 {
		t.Errorf("percentage = %v, want 50", resp.EligibilityPercentage)
	}
}

// ── Waivers ──

func TestWaiverOverridesEvaluation(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 100)
	req := f.addRequirement(corporal.RankID, model.EvalTimeInService, 365)

	ctx := context.Background()
	waiver := &model.PromotionWaiver{
		UserID:        user.UserID,
		RequirementID: req.RequirementID,
		GrantedByID:   "admin-1",
		Reason:        "prior service credit",
		IsActive:      true,
	}
	f.promos.CreateWaiver(ctx, waiver)

	resp, err := f.svc.GetProgress(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	result := findResult(t, resp, req.RequirementID)
	if !result.Met || !result.Waived {
		t.Errorf("waived requirement = met:%v waived:%v, want both", result.Met, result.Waived)
	}
	if result.CurrentValue != "Waived" {
		t.Errorf("current value = %q, want Waived", result.CurrentValue)
	}
	if !resp.OverallEligible {
		t.Error("waiver should make the sole requirement eligible")
	}
	if len(resp.ActiveWaiverIDs) != 1 || resp.ActiveWaiverIDs[0] != waiver.WaiverID {
		t.Errorf("active waiver ids = %v, want [%s]", resp.ActiveWaiverIDs, waiver.WaiverID)
	}

	// Revoking restores the live evaluation on the next read.
	if err := f.svc.RevokeWaiver(ctx, waiver.WaiverID, "admin-1"); err != nil {
		t.Fatalf("RevokeWaiver: %v", err)
	}
	resp, err = f.svc.GetProgress(ctx, user.UserID)
	if err != nil {
		t.Fatalf("GetProgress after revoke: %v", err)
	}
	result = findResult(t, resp, req.RequirementID)
	if result.Met || result.Waived || result.CurrentValue != "100" {
		t.Errorf("post-revoke result = %+v, want live unmet evaluation", result)
	}
}

func TestGrantWaiverChecks(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 100)

	ctx := context.Background()
	locked := f.addRequirement(corporal.RankID, model.EvalTimeInService, 365)

	_, err := f.svc.GrantWaiver(ctx, &dto.GrantWaiverRequest{
		UserID: user.UserID, RequirementID: locked.RequirementID, Reason: "x",
	}, "admin-1", model.RoleAdmin)
	if !errors.Is(err, ErrNotWaiverable) {
		t.Fatalf("expected ErrNotWaiverable, got %v", err)
	}

	adminOnly := f.addRequirement(corporal.RankID, model.EvalTimeInGrade, 90)
	adminOnly.IsWaiverable = true
	adminOnly.WaiverAuthority = model.RoleAdmin

	_, err = f.svc.GrantWaiver(ctx, &dto.GrantWaiverRequest{
		UserID: user.UserID, RequirementID: adminOnly.RequirementID, Reason: "x",
	}, "officer-1", model.RoleOfficer)
	if !errors.Is(err, ErrWaiverAuthority) {
		t.Fatalf("expected ErrWaiverAuthority for officer on admin-gated requirement, got %v", err)
	}

	granted, err := f.svc.GrantWaiver(ctx, &dto.GrantWaiverRequest{
		UserID: user.UserID, RequirementID: adminOnly.RequirementID, Reason: "board decision",
	}, "admin-1", model.RoleAdmin)
	if err != nil {
		t.Fatalf("GrantWaiver: %v", err)
	}
	if !granted.IsActive || granted.GrantedByID != "admin-1" {
		t.Errorf("granted waiver = %+v, want active with grantor recorded", granted)
	}

	_, err = f.svc.GrantWaiver(ctx, &dto.GrantWaiverRequest{
		UserID: user.UserID, RequirementID: adminOnly.RequirementID, Reason: "again",
	}, "admin-1", model.RoleAdmin)
	if !errors.Is(err, ErrWaiverExists) {
		t.Fatalf("expected ErrWaiverExists on duplicate, got %v", err)
	}
}

func TestRevokeWaiverKeepsRecord(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 100)
	req := f.addRequirement(corporal.RankID, model.EvalTimeInService, 365)
	req.IsWaiverable = true
	req.WaiverAuthority = model.RoleOfficer

	ctx := context.Background()
	granted, err := f.svc.GrantWaiver(ctx, &dto.GrantWaiverRequest{
		UserID: user.UserID, RequirementID: req.RequirementID, Reason: "field commission",
	}, "officer-1", model.RoleOfficer)
	if err != nil {
		t.Fatalf("GrantWaiver: %v", err)
	}
	if err := f.svc.RevokeWaiver(ctx, granted.ID, "admin-1"); err != nil {
		t.Fatalf("RevokeWaiver: %v", err)
	}

	listed, err := f.svc.ListWaivers(ctx, user.UserID)
	if err != nil {
		t.Fatalf("ListWaivers: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("waiver list length = %d, want the revoked record retained", len(listed))
	}
	if listed[0].IsActive {
		t.Error("revoked waiver should be inactive, not deleted")
	}
}

// ── Checklist ──

func TestChecklistDaysRemaining(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 200)
	f.addRequirement(corporal.RankID, model.EvalTimeInService, 365)

	resp, err := f.svc.GetChecklist(context.Background(), user.UserID)
	if err != nil {
		t.Fatalf("GetChecklist: %v", err)
	}
	if len(resp.Items) != 1 {
		t.Fatalf("checklist items = %d, want 1", len(resp.Items))
	}
	item := resp.Items[0]
	if item.Met {
		t.Error("200 of 365 days should be unmet")
	}
	if item.DaysRemaining == nil || *item.DaysRemaining != 165 {
		t.Errorf("days remaining = %v, want 165", item.DaysRemaining)
	}
}

// ── Promote ──

func TestPromoteSuccess(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 600)

	ctx := context.Background()
	f.ranks.CreateHistory(ctx, &model.UserRankHistory{
		UserID:      user.UserID,
		RankID:      recruit.RankID,
		DateStarted: testNow.AddDate(0, 0, -500),
	})
	// Warm the progress cache so the promotion has something to invalidate.
	if _, err := f.svc.GetProgress(ctx, user.UserID); err != nil {
		t.Fatalf("GetProgress: %v", err)
	}

	resp, err := f.svc.Promote(ctx, &dto.PromoteRequest{
		UserID:         user.UserID,
		NewRankID:      corporal.RankID,
		PromotionOrder: "VGO-2025-014",
	}, "officer-1")
	if err != nil {
		t.Fatalf("Promote: %v", err)
	}
	if resp.NewRank.ID != corporal.RankID {
		t.Errorf("promoted to %s, want %s", resp.NewRank.ID, corporal.RankID)
	}

	stored, err := f.users.GetByID(ctx, user.UserID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if stored.CurrentRankID == nil || *stored.CurrentRankID != corporal.RankID {
		t.Errorf("current rank = %v, want %s", stored.CurrentRankID, corporal.RankID)
	}

	open, err := f.ranks.GetOpenHistory(ctx, user.UserID)
	if err != nil {
		t.Fatalf("get open history: %v", err)
	}
	if open.RankID != corporal.RankID {
		t.Errorf("open history rank = %s, want %s (old entry closed)", open.RankID, corporal.RankID)
	}
	if open.PromotedByID == nil || *open.PromotedByID != "officer-1" {
		t.Errorf("promoted by = %v, want officer-1", open.PromotedByID)
	}
	if open.PromotionOrder != "VGO-2025-014" {
		t.Errorf("promotion order = %q, want VGO-2025-014", open.PromotionOrder)
	}

	entries, err := f.ranks.ListHistory(ctx, user.UserID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("history entries = %d, want closed recruit span plus open corporal span", len(entries))
	}

	if _, err := f.promos.GetProgress(ctx, user.UserID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Error("promotion should invalidate the cached progress snapshot")
	}
}

func TestPromoteRejectsUnmetRequirements(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 100)
	req := f.addRequirement(corporal.RankID, model.EvalTimeInService, 365)

	_, err := f.svc.Promote(context.Background(), &dto.PromoteRequest{
		UserID:    user.UserID,
		NewRankID: corporal.RankID,
	}, "officer-1")

	var notMet *RequirementsNotMetError
	if !errors.As(err, &notMet) {
		t.Fatalf("expected RequirementsNotMetError, got %v", err)
	}
	if len(notMet.UnmetIDs) != 1 || notMet.UnmetIDs[0] != req.RequirementID {
		t.Errorf("unmet ids = %v, want [%s]", notMet.UnmetIDs, req.RequirementID)
	}
}

func TestPromoteForceBypassesRequirements(t *testing.T) {
	f := newPromotionFixture()
	recruit, corporal := f.seedLadder()
	user := f.seedUser(recruit, 100)
	f.addRequirement(corporal.RankID, model.EvalTimeInService, 365)

	ctx := context.Background()
	resp, err := f.svc.Promote(ctx, &dto.PromoteRequest{
		UserID:    user.UserID,
		NewRankID: corporal.RankID,
		Force:     true,
	}, "admin-1")
	if err != nil {
		t.Fatalf("forced Promote: %v", err)
	}
	if !resp.ForceOverride {
		t.Error("response should flag the force override")
	}

	open, err := f.ranks.GetOpenHistory(ctx, user.UserID)
	if err != nil {
		t.Fatalf("get open history: %v", err)
	}
	if !open.ForceOverride {
		t.Error("history entry should record the force override for audit")
	}
}

func TestPromoteBranchAndTierGuards(t *testing.T) {
	f := newPromotionFixture()
	recruit, _ := f.seedLadder()
	user := f.seedUser(recruit, 600)

	ctx := context.Background()
	fleetRank := &model.Rank{Code: "ENS", Name: "Ensign", Branch: "fleet", Tier: 2}
	f.ranks.Create(ctx, fleetRank)

	if _, err := f.svc.Promote(ctx, &dto.PromoteRequest{UserID: user.UserID, NewRankID: fleetRank.RankID}, "admin-1"); !errors.Is(err, ErrBranchMismatch) {
		t.Fatalf("expected ErrBranchMismatch, got %v", err)
	}
	if _, err := f.svc.Promote(ctx, &dto.PromoteRequest{UserID: user.UserID, NewRankID: recruit.RankID}, "admin-1"); !errors.Is(err, ErrSameOrLowerRank) {
		t.Fatalf("expected ErrSameOrLowerRank, got %v", err)
	}
}

// ── Requirements catalog ──

func TestCreateRequirementTypeRejectsUnknownEvaluation(t *testing.T) {
	f := newPromotionFixture()

	_, err := f.svc.CreateRequirementType(context.Background(), &dto.CreateRequirementTypeRequest{
		Code:           "merit",
		Name:           "Merit Points",
		Category:       model.ReqCategoryPerformance,
		EvaluationType: "merit_points",
	}, "admin-1")
	if !errors.Is(err, ErrUnknownEvaluationType) {
		t.Fatalf("expected ErrUnknownEvaluationType, got %v", err)
	}
}

func TestCreateRequirementValidation(t *testing.T) {
	f := newPromotionFixture()
	_, corporal := f.seedLadder()

	ctx := context.Background()
	timeType := &model.RequirementType{Code: "tis", Name: "Time in Service", Category: model.ReqCategoryTime, EvaluationType: model.EvalTimeInService}
	certType := &model.RequirementType{Code: "cert", Name: "Certification", Category: model.ReqCategoryQualification, EvaluationType: model.EvalCertificationNeeded}
	f.promos.CreateType(ctx, timeType)
	f.promos.CreateType(ctx, certType)

	optional := false
	_, err := f.svc.CreateRequirement(ctx, &dto.CreateRankRequirementRequest{
		RankID:            corporal.RankID,
		RequirementTypeID: timeType.RequirementTypeID,
		RequiredValue:     365,
		IsMandatory:       &optional,
	}, "admin-1")
	if !errors.Is(err, ErrRequirementGroupRequired) {
		t.Fatalf("optional requirement without group: expected ErrRequirementGroupRequired, got %v", err)
	}

	_, err = f.svc.CreateRequirement(ctx, &dto.CreateRankRequirementRequest{
		RankID:            corporal.RankID,
		RequirementTypeID: certType.RequirementTypeID,
	}, "admin-1")
	if !errors.Is(err, ErrRequirementRefMissing) {
		t.Fatalf("certification requirement without reference: expected ErrRequirementRefMissing, got %v", err)
	}

	created, err := f.svc.CreateRequirement(ctx, &dto.CreateRankRequirementRequest{
		RankID:            corporal.RankID,
		RequirementTypeID: timeType.RequirementTypeID,
		RequiredValue:     365,
		Description:       "One year in service",
	}, "admin-1")
	if err != nil {
		t.Fatalf("CreateRequirement: %v", err)
	}
	if created.WaiverAuthority != model.RoleAdmin {
		t.Errorf("waiver authority = %q, want admin default", created.WaiverAuthority)
	}
	if !created.IsMandatory {
		t.Error("requirements default to mandatory")
	}
}
