package main

import (
	"log"

	"github.com/adboard/adverts-service/internal/app"
	"github.com/adboard/adverts-service/internal/config"
)

func main() {
	cfg := config.MustLoad()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	application.Run()
}
