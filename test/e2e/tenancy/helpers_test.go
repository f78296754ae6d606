package tenancy_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/tenancy/pkg/tenancysdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Container setup and shared flows for the tenancy end-to-end tests.
 */

const (
	testImageName = "tenancy-test:latest"

	bootstrapToken = "test-bootstrap-token-12345"
	sessionSecret  = "e2e-session-secret-0123456789abcdef"
	adminEmail     = "admin@acme.test"
	adminName      = "Administrator"
	adminPassword  = "Admin123!secret"
	tenantSub      = "acme"
)

// TestMain builds the Docker image once before all tests and removes it
// afterwards.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(0)
	}

	fmt.Fprintf(os.Stdout, "Building tenancy Docker image...")
	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up tenancy Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

func buildDockerImage() error {
	cmd := exec.CommandContext(context.Background(), "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/tenancy/Dockerfile",
		"../../../")
	cmd.Stdout = os.Stdout
	return cmd.Run()
}

func cleanupDockerImage() {
	_ = exec.CommandContext(context.Background(), "docker", "rmi", "-f", testImageName).Run()
}

// setupTenancyContainer starts the service with relaxed rate limits and
// returns its base URL. env entries override the defaults.
func setupTenancyContainer(t *testing.T, env map[string]string) string {
	t.Helper()
	ctx := context.Background()

	vars := map[string]string{
		"ENV":             "test",
		"LOG_LEVEL":       "info",
		"LOG_FORMAT":      "json",
		"BOOTSTRAP_TOKEN": bootstrapToken,
		"SESSION_SECRET":  sessionSecret,

		"RATELIMIT_STRICT_REQUESTS":   "1000",
		"RATELIMIT_STRICT_WINDOW_SEC": "60",
		"RATELIMIT_STRICT_BURST":      "1000",
		"RATELIMIT_MODERATE_REQUESTS": "1000",
		"RATELIMIT_MODERATE_BURST":    "1000",
	}
	for k, v := range env {
		vars[k] = v
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        testImageName,
			ExposedPorts: []string{"8080/tcp"},
			Env:          vars,
			WaitingFor: wait.ForHTTP("/livez").
				WithPort("8080/tcp").
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)

	return fmt.Sprintf("http://%s:%s", host, mappedPort.Port())
}

// bootstrap creates the acme tenant and its admin, then signs the admin in.
func bootstrap(t *testing.T, client *tenancysdk.SDKClient) *tenancysdk.Session {
	t.Helper()

	res, err := client.Bootstrap(t.Context(), bootstrapToken, tenancysdk.BootstrapRequest{
		TenantName:      "Acme",
		TenantSubdomain: tenantSub,
		AdminEmail:      adminEmail,
		AdminName:       adminName,
		AdminPassword:   adminPassword,
	})
	require.NoError(t, err, "Bootstrap should succeed")
	require.NotEmpty(t, res.TenantID)
	require.NotEmpty(t, res.AdminUserID)

	session, err := client.Login(t.Context(), tenancysdk.LoginRequest{
		Email:    adminEmail,
		Password: adminPassword,
		TenantID: tenantSub,
	})
	require.NoError(t, err, "Admin login should succeed")
	return session
}

// requireAPIError asserts err is an API error with the given status and code.
func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var apiErr *tenancysdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, status, apiErr.StatusCode, apiErr.Error())
	require.Equal(t, code, apiErr.Code)
}
