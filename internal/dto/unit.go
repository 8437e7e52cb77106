package dto

// CreateUnitRequest adds a node to the ORBAT tree.
type CreateUnitRequest struct {
	Name         string  `json:"name"           binding:"required,max=100"`
	Callsign     string  `json:"callsign"       binding:"omitempty,max=50"`
	UnitType     string  `json:"unit_type"      binding:"required"`
	Branch       string  `json:"branch"         binding:"required"`
	ParentUnitID *string `json:"parent_unit_id"`
}

// UpdateUnitRequest edits a unit. Nil means unchanged.
type UpdateUnitRequest struct {
	Name         *string `json:"name"     binding:"omitempty,max=100"`
	Callsign     *string `json:"callsign" binding:"omitempty,max=50"`
	UnitType     *string `json:"unit_type"`
	ParentUnitID *string `json:"parent_unit_id"`
}

// CreatePositionRequest adds a billet to a unit.
type CreatePositionRequest struct {
	UnitID       string `json:"unit_id"       binding:"required,uuid"`
	Title        string `json:"title"         binding:"required,max=100"`
	RoleCategory string `json:"role_category" binding:"required,oneof=command nco specialist member"`
	IsCommand    bool   `json:"is_command"`
	IsNCO        bool   `json:"is_nco"`
	MOSCode      string `json:"mos_code"      binding:"omitempty,max=20"`
}

// UpdatePositionRequest edits a billet. Nil means unchanged.
type UpdatePositionRequest struct {
	Title        *string `json:"title"         binding:"omitempty,max=100"`
	RoleCategory *string `json:"role_category" binding:"omitempty,oneof=command nco specialist member"`
	IsCommand    *bool   `json:"is_command"`
	IsNCO        *bool   `json:"is_nco"`
	MOSCode      *string `json:"mos_code"      binding:"omitempty,max=20"`
}

// AssignPositionRequest places a user in a billet.
type AssignPositionRequest struct {
	UserID     string `json:"user_id"     binding:"required,uuid"`
	PositionID string `json:"position_id" binding:"required,uuid"`
}

// UnitResponse is the public view of a unit.
type UnitResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Callsign     string `json:"callsign,omitempty"`
	UnitType     string `json:"unit_type"`
	Branch       string `json:"branch"`
	ParentUnitID string `json:"parent_unit_id,omitempty"`
}

// PositionResponse is the public view of a billet.
type PositionResponse struct {
	ID           string          `json:"id"`
	UnitID       string          `json:"unit_id"`
	Title        string          `json:"title"`
	RoleCategory string          `json:"role_category"`
	IsCommand    bool            `json:"is_command"`
	IsNCO        bool            `json:"is_nco"`
	MOSCode      string          `json:"mos_code,omitempty"`
	Holders      []PositionHolder `json:"holders"`
	Vacant       bool            `json:"vacant"`
}

// PositionHolder is a current occupant of a billet.
type PositionHolder struct {
	UserID    string `json:"user_id"`
	Callsign  string `json:"callsign"`
	StartDate string `json:"start_date"`
}

// UserPositionResponse is one assignment span.
type UserPositionResponse struct {
	ID        string `json:"id"`
	Position  *PositionResponse `json:"position,omitempty"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date,omitempty"`
}

// OrbatNode is one node of the rendered ORBAT tree.
type OrbatNode struct {
	Unit      UnitResponse       `json:"unit"`
	Positions []PositionResponse `json:"positions"`
	Children  []OrbatNode        `json:"children"`
}
