package model

import "time"

// Requirement categories.
const (
	ReqCategoryTime           = "time-based"
	ReqCategoryPosition       = "position-based"
	ReqCategoryQualification  = "qualification-based"
	ReqCategoryDeployment     = "deployment-based"
	ReqCategoryPerformance    = "performance-based"
	ReqCategoryAdministrative = "administrative"
)

// Evaluation types form a closed set; the evaluator rejects anything
// outside it instead of silently failing a requirement.
const (
	EvalTimeInService       = "time_in_service"
	EvalTimeInGrade         = "time_in_grade"
	EvalTimeInUnit          = "time_in_unit"
	EvalTimeInPositionType  = "time_in_position_type"
	EvalCertificationNeeded = "certification_required"
	EvalDeploymentsCount    = "deployments_count"
	EvalLeadershipTime      = "leadership_time"
)

// KnownEvaluationTypes lists every evaluation type the engine handles.
// Requirement-type rows are validated against it at definition time.
var KnownEvaluationTypes = map[string]bool{
	EvalTimeInService:       true,
	EvalTimeInGrade:         true,
	EvalTimeInUnit:          true,
	EvalTimeInPositionType:  true,
	EvalCertificationNeeded: true,
	EvalDeploymentsCount:    true,
	EvalLeadershipTime:      true,
}

// RequirementType is a catalog entry of evaluatable rule kinds — maps to
// requirement_types. Reference data: seeded once, rarely mutated.
type RequirementType struct {
	RequirementTypeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"requirement_type_id"`
	Code              string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"code"`
	Name              string `gorm:"type:varchar(100);not null"                     json:"name"`
	Category          string `gorm:"type:varchar(30);not null"                      json:"category"`
	EvaluationType    string `gorm:"type:varchar(50);not null"                      json:"evaluation_type"`
	BaseModel
}

// TableName sets the table name.
func (RequirementType) TableName() string { return "requirement_types" }

// RankRequirement is one requirement instance attached to a target rank
// — maps to rank_requirements. Rows with IsMandatory=false must carry a
// RequirementGroup; any one member of a group satisfies the group.
type RankRequirement struct {
	RequirementID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"requirement_id"`
	RankID            string  `gorm:"type:uuid;not null;index"                       json:"rank_id"`
	RequirementTypeID string  `gorm:"type:uuid;not null"                             json:"requirement_type_id"`
	RequiredValue     float64 `gorm:"not null;default:0"                             json:"required_value"` // days, count or level
	CertificationID   *string `gorm:"type:uuid"                                      json:"certification_id,omitempty"`
	PositionCategory  *string `gorm:"type:varchar(20)"                               json:"position_category,omitempty"`
	IsMandatory       bool    `gorm:"not null;default:true"                          json:"is_mandatory"`
	RequirementGroup  *string `gorm:"type:varchar(50)"                               json:"requirement_group,omitempty"`
	Description       string  `gorm:"type:text"                                      json:"description"`
	IsWaiverable      bool    `gorm:"not null;default:false"                         json:"is_waiverable"`
	WaiverAuthority   string  `gorm:"type:varchar(20);default:'admin'"               json:"waiver_authority"` // officer | admin
	BaseModel

	RequirementType *RequirementType `gorm:"foreignKey:RequirementTypeID;references:RequirementTypeID" json:"requirement_type,omitempty"`
	Certification   *Certification   `gorm:"foreignKey:CertificationID;references:CertificationID"     json:"certification,omitempty"`
}

// TableName sets the table name.
func (RankRequirement) TableName() string { return "rank_requirements" }

// UserPromotionProgress caches the most recent evaluation of a user
// against their candidate next rank — maps to user_promotion_progress.
// Pull-based: recomputed on every read, deleted on promotion, never
// push-invalidated. One row per user.
type UserPromotionProgress struct {
	ProgressID            string               `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"progress_id"`
	UserID                string               `gorm:"type:uuid;not null;uniqueIndex"                 json:"user_id"`
	NextRankID            string               `gorm:"type:uuid;not null"                             json:"next_rank_id"`
	RequirementsMet       RequirementResultMap `gorm:"type:jsonb"                                     json:"requirements_met"`
	OverallEligible       bool                 `gorm:"not null;default:false"                         json:"overall_eligible"`
	EligibilityPercentage float64              `gorm:"not null;default:0"                             json:"eligibility_percentage"`
	ActiveWaiverIDs       StringArray          `gorm:"type:jsonb"                                     json:"active_waiver_ids"`
	BoardScheduledAt      *time.Time           `json:"board_scheduled_at,omitempty"`
	LastEvaluatedAt       time.Time            `gorm:"not null"                                       json:"last_evaluated_at"`
	BaseModel

	NextRank *Rank `gorm:"foreignKey:NextRankID;references:RankID" json:"next_rank,omitempty"`
}

// TableName sets the table name.
func (UserPromotionProgress) TableName() string { return "user_promotion_progress" }

// PromotionWaiver excuses a specific requirement for a specific user —
// maps to promotion_waivers. Revoking sets IsActive=false, preserving
// the audit trail. A user+requirement pair is unique while active.
type PromotionWaiver struct {
	WaiverID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"waiver_id"`
	UserID        string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	RequirementID string     `gorm:"type:uuid;not null"                             json:"requirement_id"`
	GrantedByID   string     `gorm:"type:uuid;not null"                             json:"granted_by_id"`
	Reason        string     `gorm:"type:text;not null"                             json:"reason"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	IsActive      bool       `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	Requirement *RankRequirement `gorm:"foreignKey:RequirementID;references:RequirementID" json:"requirement,omitempty"`
	GrantedBy   *User            `gorm:"foreignKey:GrantedByID;references:UserID"          json:"granted_by,omitempty"`
}

// TableName sets the table name.
func (PromotionWaiver) TableName() string { return "promotion_waivers" }
