package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/config"
	"github.com/staffhousing/backoffice-api/internal/database"
	"github.com/staffhousing/backoffice-api/internal/models"
	"github.com/staffhousing/backoffice-api/internal/services"
	"github.com/staffhousing/backoffice-api/pkg/jwt"
)

// Exercises the services that need a live environment: token signing with
// the configured secrets and a full staff directory load.
func main() {
	fmt.Println("Services integration check")
	fmt.Println("==========================")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	db, err := database.NewConnection(cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	fmt.Println("Database connected")

	failed := false
	failed = !testJWTService(cfg) || failed
	failed = !testDirectory(cfg, db, logger) || failed
	testSchedules()

	if failed {
		fmt.Println("\nSome checks failed")
		os.Exit(1)
	}
	fmt.Println("\nAll checks passed")
}

func testJWTService(cfg *config.Config) bool {
	fmt.Println("\nJWT service")
	fmt.Println("-----------")

	svc := jwt.NewService(cfg.JWT.Secret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)
	userID := uuid.New()

	access, err := svc.GenerateAccessToken(userID, "check@example.com", []string{"viewer"})
	if err != nil {
		fmt.Printf("  FAILED to generate access token: %v\n", err)
		return false
	}
	claims, err := svc.ValidateAccessToken(access)
	if err != nil || claims.UserID != userID {
		fmt.Printf("  FAILED to validate access token: %v\n", err)
		return false
	}
	fmt.Printf("  access token ok, expires in %s\n", cfg.JWT.AccessTokenExpiry)

	refresh, err := svc.GenerateRefreshToken(userID, "check@example.com")
	if err != nil {
		fmt.Printf("  FAILED to generate refresh token: %v\n", err)
		return false
	}
	if _, err := svc.ValidateAccessToken(refresh); err == nil {
		fmt.Println("  FAILED: refresh token accepted as access token")
		return false
	}
	fmt.Println("  refresh token rejected as access token")
	return true
}

func testDirectory(cfg *config.Config, db database.DB, logger *logrus.Logger) bool {
	fmt.Println("\nStaff directory")
	fmt.Println("---------------")

	directory := services.NewStaffDirectoryService(
		database.NewExternalStaffRepository(db), logger, cfg.Directory.PageSize, cfg.Directory.LoadAttempts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	if err := directory.Refresh(ctx); err != nil {
		fmt.Printf("  FAILED to load directory: %v\n", err)
		return false
	}
	size, _ := directory.Size()
	fmt.Printf("  loaded %d staff in %s\n", size, time.Since(start).Round(time.Millisecond))

	result := directory.Search("a")
	fmt.Printf("  search \"a\": %d of %d results in %dms\n", result.Count, result.Total, result.TookMS)
	return true
}

func testSchedules() {
	fmt.Println("\nDeduction schedules")
	fmt.Println("-------------------")

	today := models.Today().String()
	for _, d := range services.GenerateDeductionSchedule(decimal.NewFromInt(500), today) {
		fmt.Printf("  deposit %d: %s %s\n", d.DeductionNumber, d.ScheduledDate, d.Amount.StringFixed(2))
	}
	for _, d := range services.GenerateFlightDeductionSchedule(decimal.NewFromInt(450), today) {
		fmt.Printf("  flight %d: %s (%s) %s\n", d.DeductionSequence, d.DeductionDate, d.PayrollPeriod, d.ScheduledAmount.StringFixed(2))
	}
}
