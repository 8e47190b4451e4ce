// Command shopctl runs back office maintenance tasks: schema migration,
// admin seeding, amount spelling and bulk customer import.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
