package main

import (
	"log"
	"os"

	"mod-helper/bot"
	"mod-helper/config"
	"mod-helper/handlers"
	"mod-helper/utils/database/sanctions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := os.MkdirAll("./data", os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	db, err := sanctions.Init(cfg.SanctionDBPath)
	if err != nil {
		log.Fatalf("Error initializing sanction database: %v", err)
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	b.Run()

	defer b.Close()
}
