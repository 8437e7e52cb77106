package model

import "time"

// Rank is one grade on a branch's progression ladder — maps to ranks.
// Tier orders ranks within a branch; a promotion must move to a higher
// tier in the same branch.
type Rank struct {
	RankID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rank_id"`
	Code     string `gorm:"type:varchar(20);not null;uniqueIndex"          json:"code"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Branch   string `gorm:"type:varchar(50);not null"                      json:"branch"`
	Tier     int    `gorm:"not null"                                       json:"tier"`
	PayGrade string `gorm:"type:varchar(10)"                               json:"pay_grade"`
	BaseModel
}

// TableName sets the table name.
func (Rank) TableName() string { return "ranks" }

// UserRankHistory is the append-only ledger of rank assignments — maps
// to user_rank_history. At most one row per user has a null DateEnded.
type UserRankHistory struct {
	HistoryID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"history_id"`
	UserID         string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	RankID         string     `gorm:"type:uuid;not null"                             json:"rank_id"`
	DateStarted    time.Time  `gorm:"not null"                                       json:"date_started"`
	DateEnded      *time.Time `json:"date_ended,omitempty"`
	PromotedByID   *string    `gorm:"type:uuid"                                      json:"promoted_by_id,omitempty"`
	PromotionOrder string     `gorm:"type:varchar(100)"                              json:"promotion_order"`
	Notes          string     `gorm:"type:text"                                      json:"notes"`
	ForceOverride  bool       `gorm:"not null;default:false"                         json:"force_override"`
	BaseModel

	Rank       *Rank `gorm:"foreignKey:RankID;references:RankID"       json:"rank,omitempty"`
	PromotedBy *User `gorm:"foreignKey:PromotedByID;references:UserID" json:"promoted_by,omitempty"`
}

// TableName sets the table name.
func (UserRankHistory) TableName() string { return "user_rank_history" }
