package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ── JSONB helper types ──

// RequirementResultMap maps a rank-requirement id to its latest
// evaluation result. Stored as JSONB on user_promotion_progress.
type RequirementResultMap map[string]RequirementResult

// RequirementResult is one cached evaluation outcome.
type RequirementResult struct {
	Met          bool    `json:"met"`
	CurrentValue float64 `json:"current_value"`
	Waived       bool    `json:"waived,omitempty"`
}

// Scan parses the JSONB column into the map.
func (m *RequirementResultMap) Scan(src interface{}) error {
	if src == nil {
		*m = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("RequirementResultMap.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, m)
}

// Value serializes the map to JSONB.
func (m RequirementResultMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// StringArray is a JSONB-backed list of ids.
type StringArray []string

// Scan parses the JSONB column into the slice.
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("StringArray.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(b, a)
}

// Value serializes the slice to JSONB.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// BaseModel holds the audit fields embedded by all business models.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// SoftDeleteModel adds soft-delete audit fields.
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}
