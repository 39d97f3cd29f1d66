package main

import (
	"context"
	"os"

	"github.com/habiliai/memorymap/cmd/memorymap/cmd"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := cmd.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
