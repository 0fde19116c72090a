// Package model provides domain models for the audit module.
package model

import "time"

// Task lifecycle actions recorded in the audit log.
const (
	ActionCreated = "created"
	ActionEdited  = "edited"
	ActionDeleted = "deleted"
)

// MaxChangesLength is the width of the changes column. Longer change
// lists are cut at write time.
const MaxChangesLength = 2000

// AuditLog is one entry in a team's activity history.
//
// Username and TaskTitle are copied at write time so entries survive
// the deletion of the user or task they describe.
type AuditLog struct {
	ID        int64     `gorm:"primaryKey;column:id;type:bigserial"                       json:"id"`
	TeamID    int64     `gorm:"column:team_id;type:bigint;not null;index:idx_audit_team"  json:"team_id"`
	Username  string    `gorm:"column:username;type:varchar(30);not null"                 json:"username"`
	TaskTitle string    `gorm:"column:task_title;type:varchar(100)"                       json:"task_title"`
	Action    string    `gorm:"column:action;type:varchar(20);not null"                   json:"action"`
	Changes   string    `gorm:"column:changes;type:varchar(2000)"                         json:"changes"`
	Timestamp time.Time `gorm:"column:timestamp;type:timestamptz;not null;default:now();index:idx_audit_team" json:"timestamp"`
}

// TableName specifies the table name for GORM.
func (AuditLog) TableName() string {
	return "audit_logs"
}
