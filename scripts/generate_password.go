//go:build ignore

package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/hustelwithrohit-pixel/retail-management-system/internal/config"
	"github.com/hustelwithrohit-pixel/retail-management-system/internal/pkg/auth"
)

// Prints a bcrypt hash for a staff password at the configured BCRYPT_COST.
// Usage: go run scripts/generate_password.go <password>
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password>")
	}
	password := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Error loading configuration:", err)
	}

	passwords := auth.NewPasswordManager(cfg)
	hash, err := passwords.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	fmt.Printf("Password: %s\n", password)
	fmt.Printf("Hash: %s\n", hash)

	if err := passwords.VerifyPassword(password, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		log.Fatal("Error reading cost:", err)
	}
	fmt.Printf("Cost: %d\n", cost)
}
