package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/siegfried/pomodoro/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := a.Run(); err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	a.Shutdown()
}
