package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/spigell/resume-analyzer/cmd"
)

func main() {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
