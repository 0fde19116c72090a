package model

import (
	"time"

	"gorm.io/gorm"
)

// Team represents a team led by one user.
// Matches the teams table schema.
type Team struct {
	ID          int64     `gorm:"primaryKey;column:id;type:bigserial"                                 json:"id"`
	LeaderID    int64     `gorm:"column:leader_id;type:bigint;not null;index:idx_teams_leader_id"     json:"leader_id"`
	Name        string    `gorm:"column:name;type:varchar(30);not null"                               json:"name"`
	Description string    `gorm:"column:description;type:varchar(200);not null;default:''"           json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"           json:"-"`
	UpdatedAt   time.Time `gorm:"column:updated_at;type:timestamptz;not null;default:now()"           json:"-"`
}

// TableName specifies the table name for GORM.
func (Team) TableName() string {
	return "teams"
}

// BeforeUpdate updates the UpdatedAt timestamp before saving.
func (t *Team) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	return nil
}

// TeamMember links a user to a team. A user appears at most once per team.
// Matches the team_members table schema.
type TeamMember struct {
	ID        int64     `gorm:"primaryKey;column:id;type:bigserial"                                                     json:"id"`
	TeamID    int64     `gorm:"column:team_id;type:bigint;not null;uniqueIndex:uq_team_members_team_user"               json:"team_id"`
	UserID    int64     `gorm:"column:user_id;type:bigint;not null;uniqueIndex:uq_team_members_team_user;index:idx_team_members_user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"                               json:"-"`
}

// TableName specifies the table name for GORM.
func (TeamMember) TableName() string {
	return "team_members"
}

// Invite statuses. The schema tracks them, but resolved invites are deleted
// rather than transitioned.
const (
	InviteStatusSent     = "sent"
	InviteStatusAccepted = "accepted"
	InviteStatusRejected = "rejected"
)

// Invite represents a pending offer for a user to join a team.
// Matches the invites table schema. Unique per (team, user).
type Invite struct {
	ID        int64     `gorm:"primaryKey;column:id;type:bigserial"                                            json:"id"`
	TeamID    int64     `gorm:"column:team_id;type:bigint;not null;uniqueIndex:uq_invites_team_user"           json:"team_id"`
	UserID    int64     `gorm:"column:user_id;type:bigint;not null;uniqueIndex:uq_invites_team_user;index:idx_invites_user_id" json:"user_id"`
	Status    string    `gorm:"column:status;type:varchar(10);not null;default:'sent'"                         json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"                      json:"-"`
}

// TableName specifies the table name for GORM.
func (Invite) TableName() string {
	return "invites"
}
