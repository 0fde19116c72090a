//go:build e2e
// +build e2e

package e2e

import (
	"fmt"
	"net/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditModel "github.com/festy23/task_manager/internal/audit/model"
	taskModel "github.com/festy23/task_manager/internal/task/model"
	teamModel "github.com/festy23/task_manager/internal/team/model"
)

// setupTeam creates a team led by @leader with @alice as a member and
// returns both tokens plus the team id.
func (s *E2ETestSuite) setupTeam() (leaderToken, aliceToken string, teamID int64) {
	leaderToken = s.registerAndLogin("@leader", "leader@example.com")
	aliceToken = s.registerAndLogin("@alice", "alice@example.com")

	resp, body := s.doRequest("POST", "/teams", leaderToken, map[string]string{"name": "Backend"})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, "create team failed: %s", string(body))

	var team teamModel.TeamResponse
	s.decode(body, &team)

	resp, _ = s.doRequest("POST", fmt.Sprintf("/teams/%d/invites", team.ID), leaderToken, map[string]string{
		"usernames": "@alice",
	})
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp, _ = s.doRequest("POST", fmt.Sprintf("/teams/%d/join", team.ID), aliceToken, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	return leaderToken, aliceToken, team.ID
}

// TestTaskLifecycle covers creation, editing, completion, and the audit
// trail those actions leave behind.
func (s *E2ETestSuite) TestTaskLifecycle() {
	leaderToken, aliceToken, teamID := s.setupTeam()

	resp, body := s.doRequest("POST", fmt.Sprintf("/teams/%d/tasks", teamID), leaderToken, map[string]any{
		"title":       "Deploy the service",
		"description": "Roll out to production",
		"priority":    "high",
		"assignees":   []string{"@alice"},
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, "create task failed: %s", string(body))

	var task taskModel.TaskResponse
	s.decode(body, &task)
	assert.Equal(s.T(), "Deploy the service", task.Title)
	assert.Equal(s.T(), []string{"@alice"}, task.Assignees)

	taskPath := fmt.Sprintf("/tasks/%d", task.ID)

	// The assignee may edit the task.
	resp, body = s.doRequest("PUT", taskPath, aliceToken, map[string]any{
		"title":       "Deploy the service",
		"description": "Roll out to production",
		"priority":    "medium",
		"assignees":   []string{"@alice", "@leader"},
	})
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, "edit task failed: %s", string(body))

	resp, _ = s.doRequest("PATCH", taskPath+"/completion", aliceToken, map[string]bool{"completed": true})
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	resp, body = s.doRequest("GET", taskPath, leaderToken, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
	s.decode(body, &task)
	assert.True(s.T(), task.Completed)
	assert.Equal(s.T(), "medium", task.Priority)

	// Creation and edit are in the audit log; completion toggles are not.
	resp, body = s.doRequest("GET", fmt.Sprintf("/teams/%d/audit_log", teamID), leaderToken, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var auditResp struct {
		Entries []auditModel.AuditLog `json:"entries"`
	}
	s.decode(body, &auditResp)
	require.Len(s.T(), auditResp.Entries, 2)
	assert.Equal(s.T(), auditModel.ActionCreated, auditResp.Entries[0].Action)
	assert.Equal(s.T(), auditModel.ActionEdited, auditResp.Entries[1].Action)
	assert.Contains(s.T(), auditResp.Entries[1].Changes, "Priority: 'high' to 'medium'")
	assert.Contains(s.T(), auditResp.Entries[1].Changes, "Assigned to: Added @leader")
}

// TestTaskSearch verifies the personal search only surfaces assigned tasks.
func (s *E2ETestSuite) TestTaskSearch() {
	leaderToken, aliceToken, teamID := s.setupTeam()

	for i, assignee := range []string{"@alice", "@leader"} {
		resp, body := s.doRequest("POST", fmt.Sprintf("/teams/%d/tasks", teamID), leaderToken, map[string]any{
			"title":       fmt.Sprintf("Task %d", i+1),
			"description": "searchable work",
			"assignees":   []string{assignee},
		})
		require.Equal(s.T(), http.StatusCreated, resp.StatusCode, "create task failed: %s", string(body))
	}

	resp, body := s.doRequest("GET", "/tasks?q=searchable", aliceToken, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var searchResp struct {
		Tasks []taskModel.TaskResponse `json:"tasks"`
	}
	s.decode(body, &searchResp)
	require.Len(s.T(), searchResp.Tasks, 1)
	assert.Equal(s.T(), "Task 1", searchResp.Tasks[0].Title)
}

// TestDeleteTeamCascades verifies deleting a team wipes its tasks and
// audit entries.
func (s *E2ETestSuite) TestDeleteTeamCascades() {
	leaderToken, _, teamID := s.setupTeam()

	resp, body := s.doRequest("POST", fmt.Sprintf("/teams/%d/tasks", teamID), leaderToken, map[string]any{
		"title":       "Doomed task",
		"description": "goes down with the team",
		"assignees":   []string{"@alice"},
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, "create task failed: %s", string(body))

	resp, _ = s.doRequest("DELETE", fmt.Sprintf("/teams/%d", teamID), leaderToken, nil)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var count int64
	s.db.Table("tasks").Where("team_id = ?", teamID).Count(&count)
	assert.Zero(s.T(), count)
	s.db.Table("audit_logs").Where("team_id = ?", teamID).Count(&count)
	assert.Zero(s.T(), count)
}
