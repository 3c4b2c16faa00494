package main

import (
	"log"

	"github.com/joho/godotenv"

	"skydeck/internal/cli"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cli.Execute()
}
