package config

import (
	"errors"

	"github.com/joho/godotenv"
)

var envFiles = []string{".env", ".env.local"}

// loadEnvFile loads the first readable .env file. Variables already present in the
// process environment are never overwritten.
func loadEnvFile() (string, error) {
	for _, path := range envFiles {
		if err := godotenv.Load(path); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no .env file found")
}
