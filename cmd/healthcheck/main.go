// main.go
//
// Container healthcheck binary: connects, runs the health service, prints
// the result and exits non-zero when unhealthy.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/prylics/prylics-data/internal/config"
	"github.com/prylics/prylics-data/internal/database"
	"github.com/prylics/prylics-data/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Perform health check
	result := services.HealthCheck(cfg, db)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
