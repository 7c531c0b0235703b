package main

import (
	"context"
	"log"

	"github.com/magzhanmnazhatdin/courtclub/internal/app"
	"github.com/magzhanmnazhatdin/courtclub/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}

	if err := a.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}
