package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	auditRepository "github.com/festy23/task_manager/internal/audit/repository"
	taskModel "github.com/festy23/task_manager/internal/task/model"
	"github.com/festy23/task_manager/internal/task/repository"
	teamRepository "github.com/festy23/task_manager/internal/team/repository"
	userRepository "github.com/festy23/task_manager/internal/user/repository"
	"github.com/festy23/task_manager/internal/validation"
)

type testUser struct {
	ID           int64  `gorm:"primaryKey;column:id"`
	Username     string `gorm:"column:username;not null;unique"`
	FirstName    string `gorm:"column:first_name;not null"`
	LastName     string `gorm:"column:last_name;not null"`
	Email        string `gorm:"column:email;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (testUser) TableName() string { return "users" }

type testTeam struct {
	ID          int64  `gorm:"primaryKey;column:id"`
	LeaderID    int64  `gorm:"column:leader_id;not null"`
	Name        string `gorm:"column:name;not null"`
	Description string `gorm:"column:description"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (testTeam) TableName() string { return "teams" }

type testTeamMember struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	TeamID    int64     `gorm:"column:team_id;not null;uniqueIndex:idx_team_member"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_team_member"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (testTeamMember) TableName() string { return "team_members" }

type testTask struct {
	ID          int64      `gorm:"primaryKey;column:id"`
	Title       string     `gorm:"column:title;not null"`
	Description string     `gorm:"column:description;not null"`
	CreatedBy   int64      `gorm:"column:created_by;not null"`
	TeamID      int64      `gorm:"column:team_id;not null"`
	DueDate     *time.Time `gorm:"column:due_date"`
	Priority    string     `gorm:"column:priority;not null;default:''"`
	Completed   bool       `gorm:"column:completed;not null;default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (testTask) TableName() string { return "tasks" }

type testTaskAssignee struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	TaskID    int64     `gorm:"column:task_id;not null;uniqueIndex:idx_task_assignee"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_task_assignee"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (testTaskAssignee) TableName() string { return "task_assignees" }

type testAuditLog struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	TeamID    int64     `gorm:"column:team_id;not null"`
	Username  string    `gorm:"column:username;not null"`
	TaskTitle string    `gorm:"column:task_title"`
	Action    string    `gorm:"column:action;not null"`
	Changes   string    `gorm:"column:changes"`
	Timestamp time.Time `gorm:"column:timestamp;not null"`
}

func (testAuditLog) TableName() string { return "audit_logs" }

func setupService(t *testing.T) (Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&testUser{}, &testTeam{}, &testTeamMember{},
		&testTask{}, &testTaskAssignee{}, &testAuditLog{},
	)
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	svc := New(
		repository.New(db, logger),
		teamRepository.New(db, logger),
		userRepository.New(db, logger),
		auditRepository.New(db, logger, 20),
		db,
		logger,
		1000,
		20,
	)
	return svc, db
}

func seedUser(db *gorm.DB, id int64, username string) {
	db.Exec(
		"INSERT INTO users (id, username, first_name, last_name, email, password_hash) VALUES (?, ?, ?, ?, ?, ?)",
		id, username, "Test", "User", username[1:]+"@example.com", "hash",
	)
}

func seedTeam(db *gorm.DB, id, leaderID int64, name string) {
	db.Exec("INSERT INTO teams (id, leader_id, name, description) VALUES (?, ?, ?, ?)", id, leaderID, name, "")
}

func addMember(db *gorm.DB, teamID, userID int64) {
	db.Exec("INSERT INTO team_members (team_id, user_id) VALUES (?, ?)", teamID, userID)
}

func futureDate() string {
	return time.Now().AddDate(0, 1, 0).Format(taskModel.DueDateLayout)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("member creates task with audit entry", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")
		addMember(db, 10, 2)

		task, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			DueDate:     futureDate(),
			Priority:    taskModel.PriorityHigh,
			Assignees:   []string{"@alice", "@bob"},
		})

		require.NoError(t, err)
		assert.Equal(t, "Ship release", task.Title)
		assert.Equal(t, "@alice", task.CreatedBy)
		assert.ElementsMatch(t, []string{"@alice", "@bob"}, task.Assignees)

		var entry testAuditLog
		db.Where("team_id = ?", 10).First(&entry)
		assert.Equal(t, "created", entry.Action)
		assert.Equal(t, "@alice", entry.Username)
		assert.Equal(t, "Ship release", entry.TaskTitle)
		assert.Empty(t, entry.Changes)
	})

	t.Run("non-member is sent to dashboard", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")

		_, err := svc.Create(ctx, 2, 10, &taskModel.CreateTaskRequest{
			Title:       "Task",
			Description: "d",
			Assignees:   []string{"@alice"},
		})

		var forbidden *taskModel.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, taskModel.RedirectDashboard, forbidden.Redirect)
	})

	t.Run("assignees must be team members", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")

		_, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Task",
			Description: "d",
			Assignees:   []string{"@bob"},
		})

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["assignees"], "User '@bob' is not a member of this team")
	})

	t.Run("empty assignee set rejected", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedTeam(db, 10, 1, "Backend")

		_, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Task",
			Description: "d",
			Assignees:   []string{},
		})

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["assignees"], "At least one assignee is required")
	})

	t.Run("past due date rejected", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedTeam(db, 10, 1, "Backend")

		_, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Task",
			Description: "d",
			DueDate:     "2020-01-01",
			Assignees:   []string{"@alice"},
		})

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields["due_date"], "Due date cannot be in the past")
	})

	t.Run("missing team", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")

		_, err := svc.Create(ctx, 1, 999, &taskModel.CreateTaskRequest{
			Title:       "Task",
			Description: "d",
			Assignees:   []string{"@alice"},
		})

		assert.Error(t, err)
	})
}

func TestService_Edit(t *testing.T) {
	ctx := context.Background()

	t.Run("assignee edits and changes are audited", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")
		addMember(db, 10, 2)

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@bob"},
		})
		require.NoError(t, err)

		_, err = svc.Edit(ctx, 2, created.ID, &taskModel.UpdateTaskRequest{
			Title:       "Ship hotfix",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		var entry testAuditLog
		db.Where("action = ?", "edited").First(&entry)
		assert.Equal(t, "@bob", entry.Username)
		assert.Contains(t, entry.Changes, "Title: 'Ship release' to 'Ship hotfix'")
		assert.Contains(t, entry.Changes, "Assigned to: Added @alice")
		assert.Contains(t, entry.Changes, "Assigned to: Removed @bob")
	})

	t.Run("edit with no changes leaves no trace", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedTeam(db, 10, 1, "Backend")

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		_, err = svc.Edit(ctx, 1, created.ID, &taskModel.UpdateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		var count int64
		db.Model(&testAuditLog{}).Where("action = ?", "edited").Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("round-trip edits are both audited", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedTeam(db, 10, 1, "Backend")

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		_, err = svc.Edit(ctx, 1, created.ID, &taskModel.UpdateTaskRequest{
			Title:       "Ship hotfix",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		_, err = svc.Edit(ctx, 1, created.ID, &taskModel.UpdateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		var entries []testAuditLog
		db.Where("action = ?", "edited").Order("id ASC").Find(&entries)
		require.Len(t, entries, 2)
		assert.Equal(t, "Title: 'Ship release' to 'Ship hotfix'", entries[0].Changes)
		assert.Equal(t, "Title: 'Ship hotfix' to 'Ship release'", entries[1].Changes)
	})

	t.Run("member who is neither creator nor assignee is sent to team page", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")
		addMember(db, 10, 2)

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		_, err = svc.Edit(ctx, 2, created.ID, &taskModel.UpdateTaskRequest{
			Title:       "Hijacked",
			Description: "d",
			Assignees:   []string{"@alice"},
		})

		var forbidden *taskModel.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, taskModel.RedirectTeamPage, forbidden.Redirect)
		assert.Equal(t, int64(10), forbidden.TeamID)
	})

	t.Run("missing task", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")

		_, err := svc.Edit(ctx, 1, 999, &taskModel.UpdateTaskRequest{
			Title:       "Task",
			Description: "d",
			Assignees:   []string{"@alice"},
		})

		assert.ErrorIs(t, err, taskModel.ErrTaskNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("creator deletes and audit keeps the title", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedTeam(db, 10, 1, "Backend")

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		err = svc.Delete(ctx, 1, created.ID)

		require.NoError(t, err)

		var tasks int64
		db.Model(&testTask{}).Count(&tasks)
		assert.Equal(t, int64(0), tasks)

		var entry testAuditLog
		db.Where("action = ?", "deleted").First(&entry)
		assert.Equal(t, "Ship release", entry.TaskTitle)
	})

	t.Run("assignee cannot delete", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")
		addMember(db, 10, 2)

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@bob"},
		})
		require.NoError(t, err)

		err = svc.Delete(ctx, 2, created.ID)

		var forbidden *taskModel.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, taskModel.RedirectTeamPage, forbidden.Redirect)
	})
}

func TestService_ToggleCompletion(t *testing.T) {
	ctx := context.Background()

	t.Run("assignee completes the task", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")
		addMember(db, 10, 2)

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@bob"},
		})
		require.NoError(t, err)

		task, err := svc.ToggleCompletion(ctx, 2, created.ID, true)

		require.NoError(t, err)
		assert.True(t, task.Completed)
	})

	t.Run("keeps the assignee set intact", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")
		addMember(db, 10, 2)

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@alice", "@bob"},
		})
		require.NoError(t, err)

		_, err = svc.ToggleCompletion(ctx, 2, created.ID, true)
		require.NoError(t, err)

		var assignees int64
		db.Model(&testTaskAssignee{}).Where("task_id = ?", created.ID).Count(&assignees)
		assert.Equal(t, int64(2), assignees)
	})

	t.Run("non-member is sent to dashboard", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		_, err = svc.ToggleCompletion(ctx, 2, created.ID, true)

		var forbidden *taskModel.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, taskModel.RedirectDashboard, forbidden.Redirect)
	})

	t.Run("member non-participant is sent to team page", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")
		addMember(db, 10, 2)

		created, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title:       "Ship release",
			Description: "cut and tag",
			Assignees:   []string{"@alice"},
		})
		require.NoError(t, err)

		_, err = svc.ToggleCompletion(ctx, 2, created.ID, true)

		var forbidden *taskModel.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, taskModel.RedirectTeamPage, forbidden.Redirect)
	})
}

func TestService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("only the actor's assigned tasks", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")
		addMember(db, 10, 2)

		_, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title: "For Alice", Description: "d", Assignees: []string{"@alice"},
		})
		require.NoError(t, err)
		_, err = svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title: "For Bob", Description: "d", Assignees: []string{"@bob"},
		})
		require.NoError(t, err)

		tasks, err := svc.Search(ctx, 2, "", "", 0)

		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, "For Bob", tasks[0].Title)
	})

	t.Run("team filter requires membership", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")

		_, err := svc.Search(ctx, 2, "", "", 10)

		var forbidden *taskModel.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
		assert.Equal(t, taskModel.RedirectDashboard, forbidden.Redirect)
	})

	t.Run("unknown ordering rejected", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")

		_, err := svc.Search(ctx, 1, "", "bogus", 0)

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.NotEmpty(t, verr.Fields["order_by"])
	})
}

func TestService_TeamTasks(t *testing.T) {
	ctx := context.Background()

	t.Run("member lists team tasks filtered by assignee", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")
		addMember(db, 10, 2)

		_, err := svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title: "For Alice", Description: "d", Assignees: []string{"@alice"},
		})
		require.NoError(t, err)
		_, err = svc.Create(ctx, 1, 10, &taskModel.CreateTaskRequest{
			Title: "For Bob", Description: "d", Assignees: []string{"@bob"},
		})
		require.NoError(t, err)

		all, err := svc.TeamTasks(ctx, 2, 10, "", "", "")
		require.NoError(t, err)
		assert.Len(t, all, 2)

		filtered, err := svc.TeamTasks(ctx, 2, 10, "", "", "@bob")
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, "For Bob", filtered[0].Title)
	})

	t.Run("non-member rejected", func(t *testing.T) {
		svc, db := setupService(t)
		seedUser(db, 1, "@alice")
		seedUser(db, 2, "@bob")
		seedTeam(db, 10, 1, "Backend")

		_, err := svc.TeamTasks(ctx, 2, 10, "", "", "")

		var forbidden *taskModel.ForbiddenError
		require.ErrorAs(t, err, &forbidden)
	})
}
