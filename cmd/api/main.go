package main

import (
	"log"

	"carscope/internal/api"
	"carscope/internal/config"
	"carscope/internal/dataset"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	loader := dataset.NewLoader(cfg.Data.File)
	server := api.NewServer(loader)

	log.Fatal(server.Start(":" + cfg.API.Port))
}
