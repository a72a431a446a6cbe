package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/staffhousing/backoffice-api/internal/config"
	"github.com/staffhousing/backoffice-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	password := flag.String("admin-password", "", "also print a bcrypt hash for seeding admin_users.password_hash")
	cost := flag.Int("cost", config.LoadSecurity().BcryptCost, "bcrypt cost for -admin-password (default from BCRYPT_COST)")
	flag.Parse()

	fmt.Println("===========================================")
	fmt.Println("Secret generator for the back-office API")
	fmt.Println("===========================================")
	fmt.Println()

	accessSecret, refreshSecret, err := utils.GenerateJWTSecrets()
	if err != nil {
		log.Fatalf("Failed to generate secrets: %v", err)
	}

	fmt.Println("Add these to your .env file or deployment secrets:")
	fmt.Println()
	fmt.Printf("JWT_SECRET=%s\n", accessSecret)
	fmt.Printf("JWT_REFRESH_SECRET=%s\n", refreshSecret)

	if *password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*password), *cost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		fmt.Println()
		fmt.Printf("password_hash=%s\n", hash)
	}

	fmt.Println()
	fmt.Println("Keep these values out of version control.")
	fmt.Println("===========================================")
}
