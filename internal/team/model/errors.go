package model

import "errors"

var (
	// ErrTeamNotFound indicates that the requested team does not exist.
	ErrTeamNotFound = errors.New("team not found")
	// ErrNotLeader indicates an action reserved for the team leader.
	ErrNotLeader = errors.New("only the team leader may do this")
	// ErrNotMember indicates that the actor is not a member of the team.
	ErrNotMember = errors.New("not a member of this team")
	// ErrAlreadyMember indicates that the user is already in the team.
	ErrAlreadyMember = errors.New("user is already a team member")
	// ErrLeaderCannotLeave indicates that the leader tried to leave their own team.
	ErrLeaderCannotLeave = errors.New("the team leader cannot leave the team")
	// ErrLeaderCannotBeRemoved indicates an attempt to remove the leader.
	ErrLeaderCannotBeRemoved = errors.New("the team leader cannot be removed")
	// ErrMemberNotFound indicates that the target user is not in the team.
	ErrMemberNotFound = errors.New("member not found in this team")
	// ErrInviteNotFound indicates that no invite exists for (team, user).
	ErrInviteNotFound = errors.New("invite not found")
	// ErrInviteExists indicates a duplicate outstanding invite for (team, user).
	ErrInviteExists = errors.New("invite already exists")
)
