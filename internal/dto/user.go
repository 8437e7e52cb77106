package dto

// UserListRequest filters the member roster.
type UserListRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=applicant active discharged"`
}

// UpdateUserRequest edits mutable profile fields. Nil means unchanged.
type UpdateUserRequest struct {
	Callsign *string `json:"callsign" binding:"omitempty,min=2,max=50"`
	Email    *string `json:"email"    binding:"omitempty,email"`
	Branch   *string `json:"branch"`
	UnitID   *string `json:"unit_id"`
}

// AssignRoleRequest changes a user's platform role.
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin officer member"`
}

// UserResponse is the public view of a member.
type UserResponse struct {
	ID                 string        `json:"id"`
	Callsign           string        `json:"callsign"`
	Email              string        `json:"email"`
	Role               string        `json:"role"`
	Status             string        `json:"status"`
	Branch             string        `json:"branch"`
	JoinDate           string        `json:"join_date,omitempty"`
	UnitAssignmentDate string        `json:"unit_assignment_date,omitempty"`
	CurrentRank        *RankResponse `json:"current_rank,omitempty"`
	Unit               *UnitResponse `json:"unit,omitempty"`
}
