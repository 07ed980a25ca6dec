package main

import (
	"log"

	"github.com/yoyothesheep/ai-resilient-occupations/cmd"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
