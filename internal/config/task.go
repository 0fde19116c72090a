package config

import "fmt"

// TaskConfig holds task validation and audit-log retention limits.
type TaskConfig struct {
	// MaxDescriptionLength bounds task descriptions (deployments run 500 or 1000).
	MaxDescriptionLength int
	// AuditMaxEntriesPerTeam bounds audit-log retention per team.
	AuditMaxEntriesPerTeam int
}

// LoadTaskConfigFromEnv loads task configuration from environment variables.
func LoadTaskConfigFromEnv() TaskConfig {
	return TaskConfig{
		MaxDescriptionLength:   GetEnvInt("TASK_DESCRIPTION_MAX_LENGTH", 1000),
		AuditMaxEntriesPerTeam: GetEnvInt("AUDIT_MAX_ENTRIES_PER_TEAM", 20),
	}
}

// Validate validates task configuration.
func (c TaskConfig) Validate() error {
	if c.MaxDescriptionLength <= 0 {
		return fmt.Errorf("MaxDescriptionLength must be greater than 0")
	}
	if c.AuditMaxEntriesPerTeam <= 0 {
		return fmt.Errorf("AuditMaxEntriesPerTeam must be greater than 0")
	}
	return nil
}
