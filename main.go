package main

import (
	"log"

	"github.com/workzen/hr-service/config"
	"github.com/workzen/hr-service/internal/api"
)

func main() {
	cfg := config.LoadConfig()

	if cfg.DatabaseDSN == "" || cfg.AppSecret == "" {
		log.Fatal("DATABASE_DSN and APP_SECRET must be set")
	}

	api.StartServer(cfg)
}
