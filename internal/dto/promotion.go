package dto

// CreateRequirementTypeRequest adds a requirement kind to the catalog.
type CreateRequirementTypeRequest struct {
	Code           string `json:"code"            binding:"required,max=50"`
	Name           string `json:"name"            binding:"required,max=100"`
	Category       string `json:"category"        binding:"required"`
	EvaluationType string `json:"evaluation_type" binding:"required"`
}

// CreateRankRequirementRequest attaches a requirement to a target rank.
type CreateRankRequirementRequest struct {
	RankID            string  `json:"rank_id"             binding:"required,uuid"`
	RequirementTypeID string  `json:"requirement_type_id" binding:"required,uuid"`
	RequiredValue     float64 `json:"required_value"      binding:"omitempty,min=0"`
	CertificationID   *string `json:"certification_id"    binding:"omitempty,uuid"`
	PositionCategory  *string `json:"position_category"   binding:"omitempty,oneof=command nco specialist member"`
	IsMandatory       *bool   `json:"is_mandatory"`
	RequirementGroup  *string `json:"requirement_group"   binding:"omitempty,max=50"`
	Description       string  `json:"description"`
	IsWaiverable      bool    `json:"is_waiverable"`
	WaiverAuthority   string  `json:"waiver_authority"    binding:"omitempty,oneof=officer admin"`
}

// PromoteRequest transitions a user to a new rank.
type PromoteRequest struct {
	UserID         string `json:"user_id"         binding:"required,uuid"`
	NewRankID      string `json:"new_rank_id"     binding:"required,uuid"`
	PromotionOrder string `json:"promotion_order" binding:"omitempty,max=100"`
	Notes          string `json:"notes"`
	Force          bool   `json:"force"`
}

// GrantWaiverRequest excuses a requirement for a user.
type GrantWaiverRequest struct {
	UserID        string  `json:"user_id"        binding:"required,uuid"`
	RequirementID string  `json:"requirement_id" binding:"required,uuid"`
	Reason        string  `json:"reason"         binding:"required"`
	ExpiresAt     *string `json:"expires_at"` // RFC 3339
}

// RequirementTypeResponse is a catalog entry.
type RequirementTypeResponse struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	EvaluationType string `json:"evaluation_type"`
}

// RankRequirementResponse is one requirement attached to a rank.
type RankRequirementResponse struct {
	ID               string                   `json:"id"`
	RankID           string                   `json:"rank_id"`
	RequirementType  *RequirementTypeResponse `json:"requirement_type,omitempty"`
	RequiredValue    float64                  `json:"required_value"`
	CertificationID  string                   `json:"certification_id,omitempty"`
	PositionCategory string                   `json:"position_category,omitempty"`
	IsMandatory      bool                     `json:"is_mandatory"`
	RequirementGroup string                   `json:"requirement_group,omitempty"`
	Description      string                   `json:"description,omitempty"`
	IsWaiverable     bool                     `json:"is_waiverable"`
	WaiverAuthority  string                   `json:"waiver_authority,omitempty"`
}

// RequirementResultResponse is one evaluated requirement in a progress
// report. CurrentValue is "Waived" when a waiver covers the requirement.
type RequirementResultResponse struct {
	RequirementID    string  `json:"requirement_id"`
	Description      string  `json:"description,omitempty"`
	Met              bool    `json:"met"`
	CurrentValue     string  `json:"current_value"`
	RequiredValue    float64 `json:"required_value"`
	IsMandatory      bool    `json:"is_mandatory"`
	RequirementGroup string  `json:"requirement_group,omitempty"`
	Waived           bool    `json:"waived,omitempty"`
}

// PromotionProgressResponse is the full eligibility report for a user
// against their candidate next rank.
type PromotionProgressResponse struct {
	UserID                string                      `json:"user_id"`
	NextRank              *RankResponse               `json:"next_rank,omitempty"`
	Requirements          []RequirementResultResponse `json:"requirements"`
	OverallEligible       bool                        `json:"overall_eligible"`
	EligibilityPercentage float64                     `json:"eligibility_percentage"`
	ActiveWaiverIDs       []string                    `json:"active_waiver_ids,omitempty"`
	LastEvaluatedAt       string                      `json:"last_evaluated_at"`
}

// ChecklistItemResponse is one human-readable checklist entry with a
// time-remaining estimate for time-based requirements.
type ChecklistItemResponse struct {
	Description   string  `json:"description"`
	Met           bool    `json:"met"`
	Waived        bool    `json:"waived,omitempty"`
	CurrentValue  string  `json:"current_value"`
	RequiredValue float64 `json:"required_value"`
	DaysRemaining *int    `json:"days_remaining,omitempty"`
}

// ChecklistResponse is the simplified progress view for the current user.
type ChecklistResponse struct {
	NextRank *RankResponse           `json:"next_rank,omitempty"`
	Items    []ChecklistItemResponse `json:"items"`
	Eligible bool                    `json:"eligible"`
}

// PromotionResponse reports a completed promotion.
type PromotionResponse struct {
	UserID         string        `json:"user_id"`
	NewRank        *RankResponse `json:"new_rank"`
	PromotionOrder string        `json:"promotion_order,omitempty"`
	ForceOverride  bool          `json:"force_override,omitempty"`
	PromotedAt     string        `json:"promoted_at"`
}

// WaiverResponse is one waiver record.
type WaiverResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	RequirementID string `json:"requirement_id"`
	Reason        string `json:"reason"`
	GrantedByID   string `json:"granted_by_id"`
	ExpiresAt     string `json:"expires_at,omitempty"`
	IsActive      bool   `json:"is_active"`
}
