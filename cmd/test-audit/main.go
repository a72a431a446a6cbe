package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/config"
	"github.com/staffhousing/backoffice-api/internal/database"
	"github.com/staffhousing/backoffice-api/internal/services"
)

// Writes a few activity log entries against the configured database and
// prints the most recent rows back.
func main() {
	fmt.Println("=== Activity Log Check ===")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	fmt.Println("Database connected")

	// Always enabled here, whatever ENABLE_AUDIT_LOGGING says
	auditService := services.NewAuditService(database.NewAuditLogRepository(db), logger, true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("\nTEST 1: Logging a failed login...")
	auditService.LogLogin(ctx, nil, "check@example.com", "203.0.113.10", "AuditCheck/1.0", false, "invalid email or password")

	fmt.Println("TEST 2: Logging a successful login...")
	userID := uuid.New()
	auditService.LogLogin(ctx, &userID, "check@example.com", "203.0.113.10",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
		true, "")

	fmt.Println("TEST 3: Logging an entity change...")
	auditService.Log(ctx, services.AuditEvent{
		UserID:     &userID,
		Action:     services.AuditDepositPaid,
		EntityType: "security_deposit",
		EntityID:   uuid.NewString(),
		IPAddress:  "203.0.113.10",
		UserAgent:  "AuditCheck/1.0",
		Details:    map[string]interface{}{"payment_method": "cash"},
	})

	fmt.Println("\nTEST 4: Recent activity log entries:")
	entries, err := auditService.List(ctx, 5)
	if err != nil {
		log.Fatalf("FAILED to list activity log: %v", err)
	}
	fmt.Println("----------------------------------------------")
	for _, e := range entries {
		fmt.Printf("- %s | %s | %s | %s | %s\n",
			e.Action, e.EntityType, e.IPAddress, e.CreatedAt.Format(time.RFC3339), string(e.Details))
	}
	fmt.Println("----------------------------------------------")

	fmt.Println("\n=== Check Complete ===")
}
