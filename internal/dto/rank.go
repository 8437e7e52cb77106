package dto

// CreateRankRequest defines a new rank on a branch ladder.
type CreateRankRequest struct {
	Code     string `json:"code"      binding:"required,max=20"`
	Name     string `json:"name"      binding:"required,max=100"`
	Branch   string `json:"branch"    binding:"required"`
	Tier     int    `json:"tier"      binding:"required,min=1"`
	PayGrade string `json:"pay_grade"`
}

// UpdateRankRequest edits a rank. Nil means unchanged.
type UpdateRankRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	Tier     *int    `json:"tier" binding:"omitempty,min=1"`
	PayGrade *string `json:"pay_grade"`
}

// RankResponse is the public view of a rank.
type RankResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Branch   string `json:"branch"`
	Tier     int    `json:"tier"`
	PayGrade string `json:"pay_grade,omitempty"`
}

// RankHistoryResponse is one ledger entry of a user's rank history.
type RankHistoryResponse struct {
	ID             string        `json:"id"`
	Rank           *RankResponse `json:"rank,omitempty"`
	DateStarted    string        `json:"date_started"`
	DateEnded      string        `json:"date_ended,omitempty"`
	PromotionOrder string        `json:"promotion_order,omitempty"`
	Notes          string        `json:"notes,omitempty"`
	ForceOverride  bool          `json:"force_override,omitempty"`
}
