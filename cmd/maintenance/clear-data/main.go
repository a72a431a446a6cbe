package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/staffhousing/backoffice-api/internal/config"
	"github.com/staffhousing/backoffice-api/internal/database"
)

// operationalTables are cleared in one TRUNCATE. admin_users and properties
// are kept so a cleared environment can still be signed into and assigned.
var operationalTables = []string{
	"audit_logs",
	"admin_refresh_tokens",
	"bills",
	"flight_agreement_deductions",
	"flight_agreements",
	"security_deposit_deductions",
	"security_deposits",
	"assignments",
	"purchase_order_items",
	"purchase_orders",
	"inventory_issuances",
	"inventory_transactions",
	"inventory_items",
}

func main() {
	var (
		dbURLFlag    string
		includeStaff bool
		confirm      bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&includeStaff, "include-staff", false, "also clear the imported external_staff directory")
	flag.BoolVar(&confirm, "yes", false, "confirm that data should be deleted")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Optional .env in the working directory keeps secrets off the command line
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	tables := append([]string(nil), operationalTables...)
	if includeStaff {
		tables = append(tables, "external_staff")
	}

	if !confirm {
		fmt.Println("This will delete all rows from:")
		for _, t := range tables {
			fmt.Printf("  %s\n", t)
		}
		fmt.Println("Re-run with -yes to proceed.")
		os.Exit(1)
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	}, logger)
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	truncateSQL := "TRUNCATE TABLE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE"
	if _, err := db.Exec(truncateSQL); err != nil {
		logger.Fatalf("failed to truncate tables: %v", err)
	}
	logger.WithField("tables", len(tables)).Info("Data cleared")

	fmt.Println("Post-clear row counts:")
	for _, t := range tables {
		var count int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
