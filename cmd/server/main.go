package main

import (
	"context"
	"os"

	"popcorn-watchlist-service/internal/root"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx := context.Background()

	rootCmd, err := root.Root(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create root command")
		os.Exit(137)
	}

	if err := rootCmd.Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
