package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads environment variables from .env/.env.local if present.
// Existing process environment variables are not overwritten. A missing file
// is not an error; the config simply parses without the extra variables.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			fmt.Fprintf(os.Stderr, "Note: %s could not be loaded: %v\n", envPath, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
		return
	}
}
