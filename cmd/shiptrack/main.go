package main

import (
	"log"

	"github.com/mwas/shiptrack/internal/app"
)

func main() {
	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ shiptrack failed to start: %v", err)
	}
}
