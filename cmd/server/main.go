// Command server runs the trial registration HTTP API.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jmkivinen/trialreg/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
