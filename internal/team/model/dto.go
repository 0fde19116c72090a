// Package model provides domain models and DTOs for the team module.
package model

// CreateTeamRequest represents the request to create a team.
type CreateTeamRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// InviteRequest carries comma-separated usernames to invite.
type InviteRequest struct {
	Usernames string `json:"usernames" binding:"required"`
}

// MemberResponse represents a team member in API responses.
type MemberResponse struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TeamResponse represents a team with its members.
type TeamResponse struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Leader      string           `json:"leader"`
	Members     []MemberResponse `json:"members"`
}

// TeamSummary represents a team row on the dashboard.
type TeamSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Leader string `json:"leader"`
}

// InviteSummary represents a pending invite on the dashboard.
type InviteSummary struct {
	TeamID   int64  `json:"team_id"`
	TeamName string `json:"team_name"`
}

// DashboardResponse aggregates the current user's teams and pending invites.
type DashboardResponse struct {
	Teams   []TeamSummary   `json:"teams"`
	Invites []InviteSummary `json:"invites"`
}
