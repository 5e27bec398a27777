package main

import (
	"log"

	"carscope/internal/config"
	"carscope/internal/dataset"
	"carscope/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	loader := dataset.NewLoader(cfg.Data.File)

	server, err := ui.NewServer(cfg, loader)
	if err != nil {
		log.Fatalf("Failed to create UI server: %v", err)
	}

	log.Fatal(server.Start())
}
