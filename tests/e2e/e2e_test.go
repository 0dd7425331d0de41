// e2e_test.go
//
// Full-stack tests against the built service image with real MariaDB and
// Authorizer containers. Expects the same .env the testcontainers
// executable uses.

package e2e_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/prylics/prylics-data/internal/config"
	"github.com/prylics/prylics-data/internal/database"
	"github.com/prylics/prylics-data/internal/services"
	"github.com/prylics/prylics-data/tests/helpers"
)

// TestE2EWithFullStack tests the entire service stack
func TestE2EWithFullStack(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	ctx := context.Background()

	tc, err := helpers.CreateAllTestContainers(t)
	if err != nil {
		t.Fatalf("Failed to start test containers: %v", err)
	}
	defer tc.Terminate(t)

	serviceHost, _ := tc.ServiceContainer.Host(ctx)
	servicePort, _ := tc.ServiceContainer.MappedPort(ctx, "3000")
	baseURL := fmt.Sprintf("http://%s:%s", serviceHost, servicePort.Port())

	// Wait a bit for everything to stabilize
	time.Sleep(5 * time.Second)

	// Run E2E tests
	t.Run("HealthCheck", func(t *testing.T) {
		testHealthCheck(t, tc)
	})

	t.Run("PrometheusMetrics", func(t *testing.T) {
		testPrometheusMetrics(t, baseURL)
	})

	t.Run("SwaggerUI", func(t *testing.T) {
		testSwaggerUI(t, baseURL)
	})

	t.Run("SeededFeed", func(t *testing.T) {
		testSeededFeed(t, baseURL)
	})

	t.Run("AuthRequired", func(t *testing.T) {
		testAuthRequired(t, baseURL)
	})
}

func testHealthCheck(t *testing.T, tc *helpers.TestContainers) {
	ctx := context.Background()

	// 1. Prepare configuration for the health check
	// We need to point to the mapped ports on localhost, not internal container names
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Update DB host and port to mapped values
	dbHost, _ := tc.DBContainer.Host(ctx)
	dbPort, _ := tc.DBContainer.MappedPort(ctx, "3306")
	cfg.DBHost = dbHost
	cfg.DBPort = dbPort.Port()

	// Update Authorizer URL to mapped value
	authzHost, _ := tc.AuthorizerContainer.Host(ctx)
	authzPort, _ := tc.AuthorizerContainer.MappedPort(ctx, "8080")
	cfg.AuthzURL = fmt.Sprintf("http://%s:%s", authzHost, authzPort.Port())

	// 2. Establish GORM connection to the test database
	gormDB, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	defer database.Close(gormDB)

	// 3. Perform the health check
	result := services.HealthCheck(cfg, gormDB)

	// 4. Verify the result
	if result.Status != "healthy" {
		t.Errorf("Health check failed: %+v", result)
	}

	t.Logf("Health check passed: status=%s, database=%s, authorizer=%s",
		result.Status, result.Database, result.Authorizer)
}

func testPrometheusMetrics(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/metrics")
	if err != nil {
		t.Fatalf("Failed to get metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	bodyStr := string(body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for metrics, got %d. Body: %s", resp.StatusCode, bodyStr)
	}

	t.Logf("Metrics endpoint working, found %d bytes of metrics", len(bodyStr))
}

func testSwaggerUI(t *testing.T, baseURL string) {
	resp, err := http.Get(baseURL + "/swagger/index.html")
	if err != nil {
		t.Fatalf("Failed to get Swagger UI: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for Swagger UI, got %d", resp.StatusCode)
	}
}

func testSeededFeed(t *testing.T, baseURL string) {
	// The service seeds demo posts on first run; the public feed must serve them
	resp, err := http.Get(baseURL + "/api/feed")
	if err != nil {
		t.Fatalf("Failed to get feed: %v", err)
	}
	helpers.AssertStatus(t, resp, 200)

	var posts []map[string]interface{}
	helpers.ParseJSON(t, resp, &posts)
	if len(posts) == 0 {
		t.Error("Expected seeded posts in the feed")
	}
	for _, post := range posts {
		if post["id"] == "" {
			t.Errorf("Feed post is missing an id: %+v", post)
		}
	}
}

func testAuthRequired(t *testing.T, baseURL string) {
	// Protected routes must reject requests without a session cookie
	resp, err := http.Post(baseURL+"/api/posts", "application/json", nil)
	if err != nil {
		t.Fatalf("Failed to access protected API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 403 {
		body, _ := io.ReadAll(resp.Body)
		t.Logf("Response body: %s", string(body))
		t.Errorf("Expected status 403, got %d", resp.StatusCode)
	}

	// Verify response is the JSON error envelope
	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Errorf("Response is not valid JSON: %v", err)
	}
	if ok, present := result["ok"]; present && ok == true {
		t.Errorf("Expected ok=false in error envelope, got %+v", result)
	}
}
