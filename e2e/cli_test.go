package e2e_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/api"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/factory"
)

// cliRunner manages CLI binary execution for a single device identity
type cliRunner struct {
	binaryPath string
	serverURL  string
	deviceID   string
}

func newCLIRunner(t *testing.T, serverURL, deviceID string) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(projectRoot, "bin", "bgroup-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/bgroup")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	return &cliRunner{
		binaryPath: binaryPath,
		serverURL:  serverURL,
		deviceID:   deviceID,
	}
}

// withDevice returns a runner sharing the same binary under another identity
func (r *cliRunner) withDevice(deviceID string) *cliRunner {
	return &cliRunner{
		binaryPath: r.binaryPath,
		serverURL:  r.serverURL,
		deviceID:   deviceID,
	}
}

func (r *cliRunner) run(args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--device-id", r.deviceID,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// runWithDeviceFile runs without an explicit device id so the CLI generates
// and persists one in the given file
func (r *cliRunner) runWithDeviceFile(deviceFile string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--server", r.serverURL,
		"--device-file", deviceFile,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

// testServer manages a real HTTP server for e2e tests
type testServer struct {
	server   *http.Server
	addr     string
	shutdown func()
}

func startTestServer(t *testing.T) *testServer {
	t.Helper()

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:            logger,
		SessionController: app.SessionController,
		StatusController:  app.StatusController,
		MatchService:      app.MatchService,
		HubManager:        app.HubManager,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server
	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	// Wait for server to be ready
	serverURL := "http://" + addr
	waitForServer(t, serverURL+"/api/v1/health")

	return &testServer{
		server: server,
		addr:   serverURL,
		shutdown: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = server.Shutdown(ctx)
		},
	}
}

func waitForServer(t *testing.T, url string) {
	t.Helper()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	deadline := time.Now().Add(5 * time.Second)

	for time.Now().Before(deadline) {
		resp, err := client.Get(url)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(50 * time.Millisecond)
	}

	t.Fatal("server did not become ready in time")
}

// Response types for JSON parsing

type playerResponse struct {
	ID            string     `json:"id"`
	DisplayName   string     `json:"display_name"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	RestExpiresAt *time.Time `json:"rest_expires_at"`
}

type sessionResponse struct {
	ShareCode string           `json:"share_code"`
	Status    string           `json:"status"`
	Players   []playerResponse `json:"players"`
}

type createSessionResponse struct {
	Session   sessionResponse `json:"session"`
	Organizer playerResponse  `json:"organizer"`
}

type statusRequestResponse struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Origin string `json:"origin"`
	Reason string `json:"reason"`
}

type submitStatusResponse struct {
	Request statusRequestResponse `json:"request"`
}

type pendingRequestResponse struct {
	Player  playerResponse        `json:"player"`
	Request statusRequestResponse `json:"request"`
}

type matchResponse struct {
	ID          string     `json:"id"`
	ShareCode   string     `json:"share_code"`
	Status      string     `json:"status"`
	Players     []string   `json:"players"`
	CompletedAt *time.Time `json:"completed_at"`
}

type healthResponse struct {
	Status string `json:"status"`
}

// Tests

func TestCLI_HealthCheck(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr, "e2e-device")

	output, err := cli.run("health")
	require.NoError(t, err, "output: %s", output)

	var resp healthResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCLI_SessionLifecycle(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	org := newCLIRunner(t, ts.addr, "org-device")
	alice := org.withDevice("alice-device")

	// Organizer creates a session
	output, err := org.run("session", "create", "--name", "Sam")
	require.NoError(t, err, "output: %s", output)

	var created createSessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	assert.Len(t, created.Session.ShareCode, 6)
	assert.Equal(t, "active", created.Session.Status)
	assert.Equal(t, "organizer", created.Organizer.Role)
	code := created.Session.ShareCode
	t.Logf("Created session: %s", code)

	// Alice joins
	output, err = alice.run("session", "join", code, "--name", "Alice")
	require.NoError(t, err, "output: %s", output)

	var joined playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &joined))
	assert.Equal(t, "Alice", joined.DisplayName)
	assert.Equal(t, "player", joined.Role)
	assert.Equal(t, "ACTIVE", joined.Status)

	// Session now lists both players in join order
	output, err = alice.run("session", "get", code)
	require.NoError(t, err, "output: %s", output)

	var session sessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &session))
	require.Len(t, session.Players, 2)
	assert.Equal(t, "Sam", session.Players[0].DisplayName)
	assert.Equal(t, "Alice", session.Players[1].DisplayName)

	// Re-joining from the same device conflicts
	output, err = alice.run("session", "join", code, "--name", "Alice Again")
	assert.Error(t, err)
	assert.Contains(t, output, "ALREADY_IN_SESSION")
}

func TestCLI_StatusWorkflow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	org := newCLIRunner(t, ts.addr, "org-device")
	alice := org.withDevice("alice-device")

	code, _ := createSession(t, org, "Sam")
	aliceID := joinSession(t, alice, code, "Alice")

	// Alice requests a rest
	output, err := alice.run("status", "request", aliceID, "rest", "--reason", "tired")
	require.NoError(t, err, "output: %s", output)

	var submitted submitStatusResponse
	require.NoError(t, json.Unmarshal([]byte(output), &submitted))
	assert.Equal(t, "rest", submitted.Request.Action)
	assert.Equal(t, "self", submitted.Request.Origin)
	requestID := submitted.Request.ID

	// Organizer sees it pending
	output, err = org.run("status", "pending", code)
	require.NoError(t, err, "output: %s", output)

	var pending []pendingRequestResponse
	require.NoError(t, json.Unmarshal([]byte(output), &pending))
	require.Len(t, pending, 1)
	assert.Equal(t, aliceID, pending[0].Player.ID)
	assert.Equal(t, requestID, pending[0].Request.ID)

	// Organizer approves; Alice starts resting
	output, err = org.run("status", "approve", requestID)
	require.NoError(t, err, "output: %s", output)

	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, "RESTING", player.Status)
	require.NotNil(t, player.RestExpiresAt)

	// Expiry cannot be forced before the rest period runs out
	output, err = org.run("status", "expire", aliceID)
	assert.Error(t, err)
	assert.Contains(t, output, "REST_NOT_EXPIRED")

	// A resting player may still ask to leave; the organizer denies it
	output, err = alice.run("status", "request", aliceID, "leave")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &submitted))

	output, err = org.run("status", "deny", submitted.Request.ID, "--reason", "one more game")
	require.NoError(t, err, "output: %s", output)
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	assert.Equal(t, "RESTING", player.Status, "denial leaves the player's status unchanged")
}

func TestCLI_MatchFlow(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	org := newCLIRunner(t, ts.addr, "org-device")
	alice := org.withDevice("alice-device")

	code, orgID := createSession(t, org, "Sam")
	aliceID := joinSession(t, alice, code, "Alice")

	// Organizer starts a match with both players
	output, err := org.run("match", "start", code, "--player", orgID, "--player", aliceID)
	require.NoError(t, err, "output: %s", output)

	var m matchResponse
	require.NoError(t, json.Unmarshal([]byte(output), &m))
	assert.Equal(t, "IN_PROGRESS", m.Status)
	assert.Len(t, m.Players, 2)

	// Alice cannot leave mid-match
	output, err = alice.run("status", "request", aliceID, "leave")
	assert.Error(t, err)
	assert.Contains(t, output, "PLAYER_IN_ACTIVE_GAME")

	// Organizer completes the match
	output, err = org.run("match", "complete", m.ID)
	require.NoError(t, err, "output: %s", output)

	require.NoError(t, json.Unmarshal([]byte(output), &m))
	assert.Equal(t, "COMPLETED", m.Status)
	assert.NotNil(t, m.CompletedAt)

	// Leave is accepted now
	output, err = alice.run("status", "request", aliceID, "leave")
	require.NoError(t, err, "output: %s", output)
}

func TestCLI_ErrorHandling(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	org := newCLIRunner(t, ts.addr, "org-device")
	alice := org.withDevice("alice-device")

	// Unknown session
	output, err := org.run("session", "get", "ZZZZZZ")
	assert.Error(t, err)
	assert.Contains(t, strings.ToLower(output), "not found")

	// Regular player cannot view the pending queue
	code, _ := createSession(t, org, "Sam")
	joinSession(t, alice, code, "Alice")

	output, err = alice.run("status", "pending", code)
	assert.Error(t, err)
	assert.Contains(t, output, "FORBIDDEN")
}

func TestCLI_GeneratedDeviceIdentityPersists(t *testing.T) {
	ts := startTestServer(t)
	defer ts.shutdown()

	cli := newCLIRunner(t, ts.addr, "unused")
	deviceFile := filepath.Join(t.TempDir(), "device")

	// First run generates a device id and persists it
	output, err := cli.runWithDeviceFile(deviceFile, "session", "create", "--name", "Sam")
	require.NoError(t, err, "output: %s", output)

	var created createSessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	code := created.Session.ShareCode

	saved, err := os.ReadFile(deviceFile)
	require.NoError(t, err)
	require.NotEmpty(t, strings.TrimSpace(string(saved)))

	// A second run reuses the same identity: joining the own session conflicts
	output, err = cli.runWithDeviceFile(deviceFile, "session", "join", code, "--name", "Sam Again")
	assert.Error(t, err)
	assert.Contains(t, output, "ALREADY_IN_SESSION")
}

// Helper functions

func createSession(t *testing.T, cli *cliRunner, name string) (shareCode, organizerID string) {
	t.Helper()

	output, err := cli.run("session", "create", "--name", name)
	require.NoError(t, err, "output: %s", output)

	var created createSessionResponse
	require.NoError(t, json.Unmarshal([]byte(output), &created))
	return created.Session.ShareCode, created.Organizer.ID
}

func joinSession(t *testing.T, cli *cliRunner, code, name string) string {
	t.Helper()

	output, err := cli.run("session", "join", code, "--name", name)
	require.NoError(t, err, "output: %s", output)

	var player playerResponse
	require.NoError(t, json.Unmarshal([]byte(output), &player))
	return player.ID
}
