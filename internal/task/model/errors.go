package model

import "errors"

// Logical redirect destinations carried on authorization errors.
const (
	RedirectDashboard = "dashboard"
	RedirectTeamPage  = "team_page"
)

var (
	// ErrTaskNotFound is returned when a task does not exist.
	ErrTaskNotFound = errors.New("task not found")
)

// ForbiddenError is returned when the actor may not perform a task action.
// Redirect names the page the client should fall back to; TeamID is set
// when that page is the task's team.
type ForbiddenError struct {
	Redirect string
	TeamID   int64
}

func (e *ForbiddenError) Error() string {
	return "forbidden"
}

// ForbiddenDashboard builds a forbidden error sending the actor to the dashboard.
func ForbiddenDashboard() *ForbiddenError {
	return &ForbiddenError{Redirect: RedirectDashboard}
}

// ForbiddenTeamPage builds a forbidden error sending the actor to the team page.
func ForbiddenTeamPage(teamID int64) *ForbiddenError {
	return &ForbiddenError{Redirect: RedirectTeamPage, TeamID: teamID}
}
