package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"vanguard-hq/backend/internal/dto"
	"vanguard-hq/backend/internal/model"
	"vanguard-hq/backend/internal/repository"
)

// ── promotion module business errors ──

var (
	ErrNoNextRank               = errors.New("no higher rank exists for this branch")
	ErrSameOrLowerRank          = errors.New("target rank tier must exceed current rank tier")
	ErrBranchMismatch           = errors.New("target rank belongs to a different branch")
	ErrUnknownEvaluationType    = errors.New("unknown requirement evaluation type")
	ErrRequirementNotFound      = errors.New("rank requirement not found")
	ErrRequirementTypeNotFound  = errors.New("requirement type not found")
	ErrRequirementGroupRequired = errors.New("optional requirements must carry a requirement group")
	ErrRequirementRefMissing    = errors.New("requirement is missing its certification or position reference")
	ErrWaiverNotFound           = errors.New("waiver not found")
	ErrWaiverExists             = errors.New("an active waiver already exists for this user and requirement")
	ErrNotWaiverable            = errors.New("requirement is not waiverable")
	ErrWaiverAuthority          = errors.New("insufficient authority to waive this requirement")
)

// RequirementsNotMetError rejects a promotion with the ids of the
// requirements that failed. Reported as a structured 400, not a fault.
type RequirementsNotMetError struct {
	UnmetIDs []string
}

func (e *RequirementsNotMetError) Error() string {
	return fmt.Sprintf("promotion requirements not met: %d unsatisfied", len(e.UnmetIDs))
}

// PromotionService is the rank-progression business interface: the
// requirements catalog, the per-user evaluator and aggregator, waivers,
// and the promotion action itself.
type PromotionService interface {
	// Evaluation (pull-based; recomputes and re-caches on every call).
	GetProgress(ctx context.Context, userID string) (*dto.PromotionProgressResponse, error)
	GetChecklist(ctx context.Context, userID string) (*dto.ChecklistResponse, error)

	// Promotion action.
	Promote(ctx context.Context, req *dto.PromoteRequest, callerID string) (*dto.PromotionResponse, error)

	// Requirements catalog administration.
	CreateRequirementType(ctx context.Context, req *dto.CreateRequirementTypeRequest, callerID string) (*dto.RequirementTypeResponse, error)
	ListRequirementTypes(ctx context.Context) ([]dto.RequirementTypeResponse, error)
	CreateRequirement(ctx context.Context, req *dto.CreateRankRequirementRequest, callerID string) (*dto.RankRequirementResponse, error)
	ListRequirements(ctx context.Context, rankID string) ([]dto.RankRequirementResponse, error)
	DeleteRequirement(ctx context.Context, id string) error

	// Waivers.
	GrantWaiver(ctx context.Context, req *dto.GrantWaiverRequest, callerID, callerRole string) (*dto.WaiverResponse, error)
	ListWaivers(ctx context.Context, userID string) ([]dto.WaiverResponse, error)
	RevokeWaiver(ctx context.Context, waiverID, callerID string) error
}

type promotionService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewPromotionService creates the PromotionService.
func NewPromotionService(repo *repository.Repository, logger *zap.Logger) PromotionService {
	return &promotionService{repo: repo, logger: logger, now: time.Now}
}

// ════════════════════════════════════════════════════════════
// Per-requirement evaluator
// ════════════════════════════════════════════════════════════

// evaluateRequirement checks a single requirement against the user's
// live state. Deterministic for a fixed database state and "now"; no
// side effects. An evaluation type outside the known set is a
// configuration error and fails loudly.
func (s *promotionService) evaluateRequirement(ctx context.Context, user *model.User, req *model.RankRequirement, now time.Time) (bool, float64, error) {
	rt := req.RequirementType
	if rt == nil {
		loaded, err := s.repo.Promotion.GetType(ctx, req.RequirementTypeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, 0, fmt.Errorf("%w: id %s", ErrRequirementTypeNotFound, req.RequirementTypeID)
			}
			return false, 0, err
		}
		rt = loaded
	}

	switch rt.EvaluationType {
	case model.EvalTimeInService:
		if user.JoinDate == nil {
			return false, 0, nil
		}
		days := daysSince(*user.JoinDate, now)
		return days >= req.RequiredValue, days, nil

	case model.EvalTimeInGrade:
		if user.CurrentRankID == nil {
			return false, 0, nil
		}
		entry, err := s.repo.Rank.GetLatestForRank(ctx, user.UserID, *user.CurrentRankID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, 0, nil
			}
			return false, 0, err
		}
		days := daysSince(entry.DateStarted, now)
		return days >= req.RequiredValue, days, nil

	case model.EvalTimeInUnit:
		if user.UnitAssignmentDate == nil {
			return false, 0, nil
		}
		days := daysSince(*user.UnitAssignmentDate, now)
		return days >= req.RequiredValue, days, nil

	case model.EvalTimeInPositionType:
		if req.PositionCategory == nil {
			return false, 0, fmt.Errorf("%w: requirement %s", ErrRequirementRefMissing, req.RequirementID)
		}
		assignments, err := s.repo.Unit.ListUserAssignments(ctx, user.UserID)
		if err != nil {
			return false, 0, err
		}
		days := sumAssignmentDays(assignments, now, func(p *model.Position) bool {
			return p.RoleCategory == *req.PositionCategory
		})
		return days >= req.RequiredValue, days, nil

	case model.EvalLeadershipTime:
		assignments, err := s.repo.Unit.ListUserAssignments(ctx, user.UserID)
		if err != nil {
			return false, 0, err
		}
		// One pass over the spans: a billet that is both NCO- and
		// command-flagged is counted once, not twice.
		days := sumAssignmentDays(assignments, now, func(p *model.Position) bool {
			return p.IsNCO || p.IsCommand
		})
		return days >= req.RequiredValue, days, nil

	case model.EvalCertificationNeeded:
		if req.CertificationID == nil {
			return false, 0, fmt.Errorf("%w: requirement %s", ErrRequirementRefMissing, req.RequirementID)
		}
		has, err := s.repo.Certification.HasActiveCertificate(ctx, user.UserID, *req.CertificationID)
		if err != nil {
			return false, 0, err
		}
		if has {
			return true, 1, nil
		}
		return false, 0, nil

	case model.EvalDeploymentsCount:
		count, err := s.repo.Event.CountConfirmedDeployments(ctx, user.UserID)
		if err != nil {
			return false, 0, err
		}
		return float64(count) >= req.RequiredValue, float64(count), nil

	default:
		return false, 0, fmt.Errorf("%w: %q", ErrUnknownEvaluationType, rt.EvaluationType)
	}
}

// daysSince returns whole elapsed days between t and now.
func daysSince(t, now time.Time) float64 {
	if now.Before(t) {
		return 0
	}
	return float64(int(now.Sub(t).Hours() / 24))
}

// sumAssignmentDays sums the day-spans of the assignments whose position
// matches. Open spans end at "now". Concurrent spans each count.
func sumAssignmentDays(assignments []model.UserPosition, now time.Time, match func(*model.Position) bool) float64 {
	var total float64
	for i := range assignments {
		a := &assignments[i]
		if a.Position == nil || !match(a.Position) {
			continue
		}
		end := now
		if a.EndDate != nil {
			end = *a.EndDate
		}
		total += daysSince(a.StartDate, end)
	}
	return total
}

// ════════════════════════════════════════════════════════════
// Progress aggregator
// ════════════════════════════════════════════════════════════

type evaluatedRequirement struct {
	req    model.RankRequirement
	met    bool
	value  float64
	waived bool
}

type evaluation struct {
	results         []evaluatedRequirement
	overallEligible bool
	percentage      float64
	waiverIDs       []string
	unmetIDs        []string
}

// evaluateAll runs the evaluator across every requirement of the target
// rank. Waived requirements count as met without re-evaluation. OR
// groups contribute a single unit to the totals, satisfied when any
// member is met.
func (s *promotionService) evaluateAll(ctx context.Context, user *model.User, rank *model.Rank) (*evaluation, error) {
	now := s.now()

	reqs, err := s.repo.Promotion.ListRequirements(ctx, rank.RankID)
	if err != nil {
		s.logger.Error("list rank requirements failed", zap.String("rank_id", rank.RankID), zap.Error(err))
		return nil, err
	}

	waivers, err := s.repo.Promotion.ListActiveWaivers(ctx, user.UserID)
	if err != nil {
		s.logger.Error("list active waivers failed", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}
	waivedReqs := make(map[string]bool, len(waivers))
	waiverIDs := make([]string, 0, len(waivers))
	for _, w := range waivers {
		waivedReqs[w.RequirementID] = true
		waiverIDs = append(waiverIDs, w.WaiverID)
	}

	ev := &evaluation{waiverIDs: waiverIDs}

	// group key → met / best value, insertion-ordered
	groupMet := make(map[string]bool)
	var groupOrder []string

	for i := range reqs {
		req := &reqs[i]

		var result evaluatedRequirement
		result.req = *req

		if waivedReqs[req.RequirementID] {
			result.met = true
			result.waived = true
		} else {
			met, value, err := s.evaluateRequirement(ctx, user, req, now)
			if err != nil {
				return nil, err
			}
			result.met = met
			result.value = value
		}
		ev.results = append(ev.results, result)

		if req.IsMandatory {
			continue
		}
		key := req.RequirementID // defensive: ungrouped optional stands alone
		if req.RequirementGroup != nil && *req.RequirementGroup != "" {
			key = *req.RequirementGroup
		}
		if _, seen := groupMet[key]; !seen {
			groupOrder = append(groupOrder, key)
		}
		groupMet[key] = groupMet[key] || result.met
	}

	totalUnits := 0
	metUnits := 0
	for _, r := range ev.results {
		if !r.req.IsMandatory {
			continue
		}
		totalUnits++
		if r.met {
			metUnits++
		} else {
			ev.unmetIDs = append(ev.unmetIDs, r.req.RequirementID)
		}
	}
	for _, key := range groupOrder {
		totalUnits++
		if groupMet[key] {
			metUnits++
		} else {
			// every member of an unmet group is reported
			for _, r := range ev.results {
				if !r.req.IsMandatory && groupKeyOf(&r.req) == key {
					ev.unmetIDs = append(ev.unmetIDs, r.req.RequirementID)
				}
			}
		}
	}

	if totalUnits == 0 {
		ev.overallEligible = true
		ev.percentage = 100
	} else {
		ev.overallEligible = metUnits == totalUnits
		ev.percentage = float64(metUnits) / float64(totalUnits) * 100
	}

	return ev, nil
}

func groupKeyOf(req *model.RankRequirement) string {
	if req.RequirementGroup != nil && *req.RequirementGroup != "" {
		return *req.RequirementGroup
	}
	return req.RequirementID
}

// nextRankFor finds the user's candidate next rank: the lowest tier of
// their branch strictly above the current tier (or the bottom rank when
// the user holds none).
func (s *promotionService) nextRankFor(ctx context.Context, user *model.User) (*model.Rank, error) {
	currentTier := 0
	if user.CurrentRank != nil {
		currentTier = user.CurrentRank.Tier
	} else if user.CurrentRankID != nil {
		rank, err := s.repo.Rank.GetByID(ctx, *user.CurrentRankID)
		if err != nil {
			return nil, err
		}
		currentTier = rank.Tier
	}

	next, err := s.repo.Rank.GetNextRank(ctx, user.Branch, currentTier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoNextRank
		}
		return nil, err
	}
	return next, nil
}

// ────────────────────── GetProgress ──────────────────────

func (s *promotionService) GetProgress(ctx context.Context, userID string) (*dto.PromotionProgressResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	nextRank, err := s.nextRankFor(ctx, user)
	if err != nil {
		return nil, err
	}

	ev, err := s.evaluateAll(ctx, user, nextRank)
	if err != nil {
		return nil, err
	}

	now := s.now()

	// Persist the snapshot. The row is a pull-based cache: it is
	// recomputed on every read and may be stale the moment the user's
	// underlying state changes.
	snapshot := &model.UserPromotionProgress{
		UserID:                user.UserID,
		NextRankID:            nextRank.RankID,
		RequirementsMet:       make(model.RequirementResultMap, len(ev.results)),
		OverallEligible:       ev.overallEligible,
		EligibilityPercentage: ev.percentage,
		ActiveWaiverIDs:       model.StringArray(ev.waiverIDs),
		LastEvaluatedAt:       now,
	}
	for _, r := range ev.results {
		snapshot.RequirementsMet[r.req.RequirementID] = model.RequirementResult{
			Met:          r.met,
			CurrentValue: r.value,
			Waived:       r.waived,
		}
	}
	if err := s.repo.Promotion.SaveProgress(ctx, snapshot); err != nil {
		s.logger.Error("save promotion progress failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	resp := &dto.PromotionProgressResponse{
		UserID:                user.UserID,
		NextRank:              toRankResponse(nextRank),
		OverallEligible:       ev.overallEligible,
		EligibilityPercentage: ev.percentage,
		ActiveWaiverIDs:       ev.waiverIDs,
		LastEvaluatedAt:       now.UTC().Format(time.RFC3339),
	}
	for _, r := range ev.results {
		resp.Requirements = append(resp.Requirements, toRequirementResult(&r))
	}
	return resp, nil
}

// ────────────────────── GetChecklist ──────────────────────

func (s *promotionService) GetChecklist(ctx context.Context, userID string) (*dto.ChecklistResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	nextRank, err := s.nextRankFor(ctx, user)
	if err != nil {
		return nil, err
	}

	ev, err := s.evaluateAll(ctx, user, nextRank)
	if err != nil {
		return nil, err
	}

	resp := &dto.ChecklistResponse{
		NextRank: toRankResponse(nextRank),
		Eligible: ev.overallEligible,
	}
	for _, r := range ev.results {
		item := dto.ChecklistItemResponse{
			Description:   r.req.Description,
			Met:           r.met,
			Waived:        r.waived,
			CurrentValue:  formatCurrentValue(&r),
			RequiredValue: r.req.RequiredValue,
		}
		if !r.met && isTimeBased(&r.req) {
			remaining := int(r.req.RequiredValue - r.value)
			if remaining < 0 {
				remaining = 0
			}
			item.DaysRemaining = &remaining
		}
		resp.Items = append(resp.Items, item)
	}
	return resp, nil
}

func isTimeBased(req *model.RankRequirement) bool {
	if req.RequirementType == nil {
		return false
	}
	switch req.RequirementType.EvaluationType {
	case model.EvalTimeInService, model.EvalTimeInGrade, model.EvalTimeInUnit,
		model.EvalTimeInPositionType, model.EvalLeadershipTime:
		return true
	}
	return false
}

// ────────────────────── Promote ──────────────────────

func (s *promotionService) Promote(ctx context.Context, req *dto.PromoteRequest, callerID string) (*dto.PromotionResponse, error) {
	user, err := s.repo.User.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("get user failed", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, err
	}

	newRank, err := s.repo.Rank.GetByID(ctx, req.NewRankID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRankNotFound
		}
		s.logger.Error("get rank failed", zap.String("rank_id", req.NewRankID), zap.Error(err))
		return nil, err
	}

	if !req.Force {
		if newRank.Branch != user.Branch {
			return nil, ErrBranchMismatch
		}
		if user.CurrentRank != nil && newRank.Tier <= user.CurrentRank.Tier {
			return nil, ErrSameOrLowerRank
		}

		ev, err := s.evaluateAll(ctx, user, newRank)
		if err != nil {
			return nil, err
		}
		if !ev.overallEligible {
			return nil, &RequirementsNotMetError{UnmetIDs: ev.unmetIDs}
		}
	}

	now := s.now()

	// Close-old / open-new / update-current must succeed or fail as one.
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("begin promotion tx failed", zap.Error(err))
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	txRepo := s.repo.WithTx(tx)

	open, err := txRepo.Rank.GetOpenHistory(ctx, user.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		rollback()
		s.logger.Error("get open rank history failed", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}
	if open != nil {
		open.DateEnded = &now
		open.UpdatedBy = &callerID
		if err := txRepo.Rank.UpdateHistory(ctx, open); err != nil {
			rollback()
			s.logger.Error("close rank history failed", zap.String("user_id", user.UserID), zap.Error(err))
			return nil, err
		}
	}

	entry := &model.UserRankHistory{
		UserID:         user.UserID,
		RankID:         newRank.RankID,
		DateStarted:    now,
		PromotedByID:   &callerID,
		PromotionOrder: req.PromotionOrder,
		Notes:          req.Notes,
		ForceOverride:  req.Force,
	}
	entry.CreatedBy = &callerID
	entry.UpdatedBy = &callerID
	if err := txRepo.Rank.CreateHistory(ctx, entry); err != nil {
		rollback()
		s.logger.Error("create rank history failed", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}

	user.CurrentRankID = &newRank.RankID
	user.CurrentRank = nil
	user.UpdatedBy = &callerID
	if err := txRepo.User.Update(ctx, user); err != nil {
		rollback()
		s.logger.Error("update current rank failed", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}

	// Invalidate the cached snapshot; the next read recomputes against
	// the new current rank.
	if err := txRepo.Promotion.DeleteProgress(ctx, user.UserID); err != nil {
		rollback()
		s.logger.Error("delete promotion progress failed", zap.String("user_id", user.UserID), zap.Error(err))
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("commit promotion tx failed", zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("user promoted",
		zap.String("user_id", user.UserID),
		zap.String("new_rank", newRank.Code),
		zap.Bool("force", req.Force),
	)

	return &dto.PromotionResponse{
		UserID:         user.UserID,
		NewRank:        toRankResponse(newRank),
		PromotionOrder: req.PromotionOrder,
		ForceOverride:  req.Force,
		PromotedAt:     now.UTC().Format(time.RFC3339),
	}, nil
}

// ────────────────────── Requirements catalog ──────────────────────

func (s *promotionService) CreateRequirementType(ctx context.Context, req *dto.CreateRequirementTypeRequest, callerID string) (*dto.RequirementTypeResponse, error) {
	if !model.KnownEvaluationTypes[req.EvaluationType] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvaluationType, req.EvaluationType)
	}

	rt := &model.RequirementType{
		Code:           req.Code,
		Name:           req.Name,
		Category:       req.Category,
		EvaluationType: req.EvaluationType,
	}
	rt.CreatedBy = &callerID
	rt.UpdatedBy = &callerID

	if err := s.repo.Promotion.CreateType(ctx, rt); err != nil {
		s.logger.Error("create requirement type failed", zap.Error(err))
		return nil, err
	}
	return toRequirementTypeResponse(rt), nil
}

func (s *promotionService) ListRequirementTypes(ctx context.Context) ([]dto.RequirementTypeResponse, error) {
	types, err := s.repo.Promotion.ListTypes(ctx)
	if err != nil {
		s.logger.Error("list requirement types failed", zap.Error(err))
		return nil, err
	}
	result := make([]dto.RequirementTypeResponse, 0, len(types))
	for i := range types {
		result = append(result, *toRequirementTypeResponse(&types[i]))
	}
	return result, nil
}

func (s *promotionService) CreateRequirement(ctx context.Context, req *dto.CreateRankRequirementRequest, callerID string) (*dto.RankRequirementResponse, error) {
	if _, err := s.repo.Rank.GetByID(ctx, req.RankID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRankNotFound
		}
		return nil, err
	}

	rt, err := s.repo.Promotion.GetType(ctx, req.RequirementTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementTypeNotFound
		}
		return nil, err
	}

	mandatory := true
	if req.IsMandatory != nil {
		mandatory = *req.IsMandatory
	}
	if !mandatory && (req.RequirementGroup == nil || *req.RequirementGroup == "") {
		return nil, ErrRequirementGroupRequired
	}

	// Reference completeness is checked at definition time so the
	// evaluator never has to guess.
	switch rt.EvaluationType {
	case model.EvalCertificationNeeded:
		if req.CertificationID == nil {
			return nil, ErrRequirementRefMissing
		}
	case model.EvalTimeInPositionType:
		if req.PositionCategory == nil {
			return nil, ErrRequirementRefMissing
		}
	}

	waiverAuthority := req.WaiverAuthority
	if waiverAuthority == "" {
		waiverAuthority = model.RoleAdmin
	}

	requirement := &model.RankRequirement{
		RankID:            req.RankID,
		RequirementTypeID: req.RequirementTypeID,
		RequiredValue:     req.RequiredValue,
		CertificationID:   req.CertificationID,
		PositionCategory:  req.PositionCategory,
		IsMandatory:       mandatory,
		RequirementGroup:  req.RequirementGroup,
		Description:       req.Description,
		IsWaiverable:      req.IsWaiverable,
		WaiverAuthority:   waiverAuthority,
	}
	requirement.CreatedBy = &callerID
	requirement.UpdatedBy = &callerID

	if err := s.repo.Promotion.CreateRequirement(ctx, requirement); err != nil {
		s.logger.Error("create rank requirement failed", zap.Error(err))
		return nil, err
	}
	requirement.RequirementType = rt
	return toRankRequirementResponse(requirement), nil
}

func (s *promotionService) ListRequirements(ctx context.Context, rankID string) ([]dto.RankRequirementResponse, error) {
	reqs, err := s.repo.Promotion.ListRequirements(ctx, rankID)
	if err != nil {
		s.logger.Error("list rank requirements failed", zap.String("rank_id", rankID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.RankRequirementResponse, 0, len(reqs))
	for i := range reqs {
		result = append(result, *toRankRequirementResponse(&reqs[i]))
	}
	return result, nil
}

func (s *promotionService) DeleteRequirement(ctx context.Context, id string) error {
	if _, err := s.repo.Promotion.GetRequirement(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRequirementNotFound
		}
		return err
	}
	return s.repo.Promotion.DeleteRequirement(ctx, id)
}

// ────────────────────── Waivers ──────────────────────

func (s *promotionService) GrantWaiver(ctx context.Context, req *dto.GrantWaiverRequest, callerID, callerRole string) (*dto.WaiverResponse, error) {
	requirement, err := s.repo.Promotion.GetRequirement(ctx, req.RequirementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequirementNotFound
		}
		return nil, err
	}

	if !requirement.IsWaiverable {
		return nil, ErrNotWaiverable
	}
	if requirement.WaiverAuthority == model.RoleAdmin && callerRole != model.RoleAdmin {
		return nil, ErrWaiverAuthority
	}

	if _, err := s.repo.User.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.repo.Promotion.GetActiveWaiver(ctx, req.UserID, req.RequirementID); err == nil {
		return nil, ErrWaiverExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var expiresAt *time.Time
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("invalid expires_at: %w", err)
		}
		expiresAt = &t
	}

	waiver := &model.PromotionWaiver{
		UserID:        req.UserID,
		RequirementID: req.RequirementID,
		GrantedByID:   callerID,
		Reason:        req.Reason,
		ExpiresAt:     expiresAt,
		IsActive:      true,
	}
	waiver.CreatedBy = &callerID
	waiver.UpdatedBy = &callerID

	if err := s.repo.Promotion.CreateWaiver(ctx, waiver); err != nil {
		s.logger.Error("create waiver failed", zap.Error(err))
		return nil, err
	}
	return toWaiverResponse(waiver), nil
}

func (s *promotionService) ListWaivers(ctx context.Context, userID string) ([]dto.WaiverResponse, error) {
	waivers, err := s.repo.Promotion.ListWaivers(ctx, userID)
	if err != nil {
		s.logger.Error("list waivers failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.WaiverResponse, 0, len(waivers))
	for i := range waivers {
		result = append(result, *toWaiverResponse(&waivers[i]))
	}
	return result, nil
}

func (s *promotionService) RevokeWaiver(ctx context.Context, waiverID, callerID string) error {
	waiver, err := s.repo.Promotion.GetWaiver(ctx, waiverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrWaiverNotFound
		}
		return err
	}

	// Revoking deactivates, never deletes: the audit trail stays.
	waiver.IsActive = false
	waiver.UpdatedBy = &callerID
	if err := s.repo.Promotion.UpdateWaiver(ctx, waiver); err != nil {
		s.logger.Error("revoke waiver failed", zap.String("waiver_id", waiverID), zap.Error(err))
		return err
	}
	return nil
}

// ── DTO conversion helpers ──

func toRankResponse(rank *model.Rank) *dto.RankResponse {
	return &dto.RankResponse{
		ID:       rank.RankID,
		Code:     rank.Code,
		Name:     rank.Name,
		Branch:   rank.Branch,
		Tier:     rank.Tier,
		PayGrade: rank.PayGrade,
	}
}

func toRequirementTypeResponse(rt *model.RequirementType) *dto.RequirementTypeResponse {
	return &dto.RequirementTypeResponse{
		ID:             rt.RequirementTypeID,
		Code:           rt.Code,
		Name:           rt.Name,
		Category:       rt.Category,
		EvaluationType: rt.EvaluationType,
	}
}

func toRankRequirementResponse(req *model.RankRequirement) *dto.RankRequirementResponse {
	resp := &dto.RankRequirementResponse{
		ID:              req.RequirementID,
		RankID:          req.RankID,
		RequiredValue:   req.RequiredValue,
		IsMandatory:     req.IsMandatory,
		Description:     req.Description,
		IsWaiverable:    req.IsWaiverable,
		WaiverAuthority: req.WaiverAuthority,
	}
	if req.RequirementType != nil {
		resp.RequirementType = toRequirementTypeResponse(req.RequirementType)
	}
	if req.CertificationID != nil {
		resp.CertificationID = *req.CertificationID
	}
	if req.PositionCategory != nil {
		resp.PositionCategory = *req.PositionCategory
	}
	if req.RequirementGroup != nil {
		resp.RequirementGroup = *req.RequirementGroup
	}
	return resp
}

func toRequirementResult(r *evaluatedRequirement) dto.RequirementResultResponse {
	resp := dto.RequirementResultResponse{
		RequirementID: r.req.RequirementID,
		Description:   r.req.Description,
		Met:           r.met,
		CurrentValue:  formatCurrentValue(r),
		RequiredValue: r.req.RequiredValue,
		IsMandatory:   r.req.IsMandatory,
		Waived:        r.waived,
	}
	if r.req.RequirementGroup != nil {
		resp.RequirementGroup = *r.req.RequirementGroup
	}
	return resp
}

func formatCurrentValue(r *evaluatedRequirement) string {
	if r.waived {
		return "Waived"
	}
	return strconv.FormatFloat(r.value, 'f', -1, 64)
}

func toWaiverResponse(w *model.PromotionWaiver) *dto.WaiverResponse {
	resp := &dto.WaiverResponse{
		ID:            w.WaiverID,
		UserID:        w.UserID,
		RequirementID: w.RequirementID,
		Reason:        w.Reason,
		GrantedByID:   w.GrantedByID,
		IsActive:      w.IsActive,
	}
	if w.ExpiresAt != nil {
		resp.ExpiresAt = w.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return resp
}
