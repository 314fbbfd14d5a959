package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/xecuteapp/backend/internal/app"
	"github.com/xecuteapp/backend/internal/utils"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := utils.GetEnv("PORT", "8080", a.Log)
	err = a.Run(ctx, ":"+port)
	a.Close()
	if err != nil {
		fmt.Printf("Server exited: %v\n", err)
		os.Exit(1)
	}
}
