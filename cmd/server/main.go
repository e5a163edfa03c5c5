package main

import (
	"log"

	"github.com/amJayem/used-books-resale-server/internal/app"
	"github.com/amJayem/used-books-resale-server/internal/app/config"
)

func main() {
	cfg := config.MustLoad()

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	application.Run()
}
