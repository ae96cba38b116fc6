package main

import (
	"context"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/portfolio/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
