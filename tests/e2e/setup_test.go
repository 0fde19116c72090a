//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docker/docker/client"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresDriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	userModel "github.com/festy23/task_manager/internal/user/model"
)

// E2ETestSuite runs the server image against a throwaway PostgreSQL container.
type E2ETestSuite struct {
	suite.Suite
	ctx          context.Context
	pgContainer  *postgres.PostgresContainer
	db           *gorm.DB
	appContainer testcontainers.Container
	baseURL      string
	httpClient   *http.Client
}

// SetupSuite runs once before all tests.
func (s *E2ETestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgContainer, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(s.T(), err, "failed to start PostgreSQL container")
	s.pgContainer = pgContainer

	// Direct connection for assertions; migrations are applied by the
	// application container on startup, exercising the real migration path.
	connStr, err := pgContainer.ConnectionString(s.ctx, "sslmode=disable")
	require.NoError(s.T(), err, "failed to get connection string")

	db, err := gorm.Open(postgresDriver.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(s.T(), err, "failed to connect to database")
	s.db = db

	// The app container reaches PostgreSQL over the Docker network, so it
	// needs the container's internal address rather than the mapped port.
	containerName, err := pgContainer.Name(s.ctx)
	require.NoError(s.T(), err, "failed to get PostgreSQL container name")

	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	require.NoError(s.T(), err, "failed to create Docker client")
	defer dockerClient.Close()

	containerNameClean := strings.TrimPrefix(containerName, "/")
	containerInfo, err := dockerClient.ContainerInspect(s.ctx, containerNameClean)
	require.NoError(s.T(), err, "failed to inspect PostgreSQL container")

	var dbHost string
	for _, network := range containerInfo.NetworkSettings.Networks {
		dbHost = network.IPAddress
		break
	}
	if dbHost == "" {
		dbHost = containerNameClean
	}

	appContainer, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "task-manager-e2e:test",
			ExposedPorts: []string{"8080/tcp"},
			Env: map[string]string{
				"DB_HOST":                     dbHost,
				"DB_PORT":                     "5432",
				"DB_USER":                     "testuser",
				"DB_PASSWORD":                 "testpass",
				"DB_NAME":                     "testdb",
				"DB_SSLMODE":                  "disable",
				"DB_TIMEZONE":                 "UTC",
				"DB_RETRY_MAX_ATTEMPTS":       "5",
				"DB_RETRY_INITIAL_DELAY":      "1s",
				"DB_RETRY_MAX_DELAY":          "30s",
				"DB_RETRY_MULTIPLIER":         "2.0",
				"SERVER_HOST":                 "",
				"SERVER_PORT":                 ":8080",
				"SERVER_READ_TIMEOUT":         "10s",
				"SERVER_WRITE_TIMEOUT":        "10s",
				"SERVER_IDLE_TIMEOUT":         "120s",
				"GIN_MODE":                    "release",
				"LOG_LEVEL":                   "info",
				"LOG_FORMAT":                  "json",
				"LOG_OUTPUT":                  "stdout",
				"JWT_SECRET":                  "e2e-test-secret",
				"JWT_TOKEN_TTL":               "1h",
				"TASK_DESCRIPTION_MAX_LENGTH": "1000",
				"AUDIT_MAX_ENTRIES_PER_TEAM":  "20",
				"MIGRATIONS_PATH":             "migrations",
			},
			WaitingFor: wait.ForHTTP("/health").
				WithPort("8080/tcp").
				WithStartupTimeout(120 * time.Second).
				WithPollInterval(2 * time.Second),
		},
		Started: true,
	})
	require.NoError(s.T(), err, "failed to start application container")
	s.appContainer = appContainer

	host, err := appContainer.Host(s.ctx)
	require.NoError(s.T(), err, "failed to get container host")

	port, err := appContainer.MappedPort(s.ctx, "8080")
	require.NoError(s.T(), err, "failed to get container port")

	s.baseURL = fmt.Sprintf("http://%s:%s", host, port.Port())
	s.httpClient = &http.Client{Timeout: 30 * time.Second}

	s.waitForApp()
}

// TearDownSuite runs once after all tests.
func (s *E2ETestSuite) TearDownSuite() {
	if s.appContainer != nil {
		_ = s.appContainer.Terminate(s.ctx)
	}
	if s.pgContainer != nil {
		_ = s.pgContainer.Terminate(s.ctx)
	}
}

// SetupTest runs before each test.
func (s *E2ETestSuite) SetupTest() {
	s.cleanDatabase()
}

// cleanDatabase truncates all tables between tests.
func (s *E2ETestSuite) cleanDatabase() {
	s.db.Exec("TRUNCATE TABLE audit_logs CASCADE")
	s.db.Exec("TRUNCATE TABLE task_assignees CASCADE")
	s.db.Exec("TRUNCATE TABLE tasks CASCADE")
	s.db.Exec("TRUNCATE TABLE invites CASCADE")
	s.db.Exec("TRUNCATE TABLE team_members CASCADE")
	s.db.Exec("TRUNCATE TABLE teams CASCADE")
	s.db.Exec("TRUNCATE TABLE users CASCADE")
}

// waitForApp waits for the application to be ready.
func (s *E2ETestSuite) waitForApp() {
	maxRetries := 30
	for i := 0; i < maxRetries; i++ {
		resp, err := s.httpClient.Get(s.baseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(1 * time.Second)
	}
	s.T().Fatal("application did not become ready in time")
}

// doRequest performs an HTTP request, optionally authorized, and returns
// the response with its body read.
func (s *E2ETestSuite) doRequest(method, path, token string, body any) (*http.Response, []byte) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.T(), err, "failed to marshal request body")
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	require.NoError(s.T(), err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(s.T(), err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(s.T(), err, "failed to read response body")
	resp.Body.Close()

	return resp, respBody
}

// signUp registers a user via the HTTP API.
func (s *E2ETestSuite) signUp(username, email string) {
	resp, respBody := s.doRequest("POST", "/auth/sign_up", "", map[string]string{
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"email":      email,
		"password":   "Passw0rdX",
	})
	require.Equal(s.T(), http.StatusCreated, resp.StatusCode, "sign up failed: %s", string(respBody))
}

// logIn authenticates a user and returns the issued token.
func (s *E2ETestSuite) logIn(username string) string {
	resp, respBody := s.doRequest("POST", "/auth/log_in", "", map[string]string{
		"username": username,
		"password": "Passw0rdX",
	})
	require.Equal(s.T(), http.StatusOK, resp.StatusCode, "log in failed: %s", string(respBody))

	var auth userModel.AuthResponse
	require.NoError(s.T(), json.Unmarshal(respBody, &auth))
	require.NotEmpty(s.T(), auth.Token)
	return auth.Token
}

// registerAndLogin is a shortcut used by most scenarios.
func (s *E2ETestSuite) registerAndLogin(username, email string) string {
	s.signUp(username, email)
	return s.logIn(username)
}

// decode unmarshals a response body into v, failing the test on error.
func (s *E2ETestSuite) decode(body []byte, v any) {
	require.NoError(s.T(), json.Unmarshal(body, v), "failed to decode response: %s", string(body))
}
