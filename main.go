package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/ardnew/boba/cli"
	"github.com/ardnew/boba/cli/cmd"
	"github.com/ardnew/boba/log"
)

func main() {
	err := cli.Run(context.Background(), os.Exit, os.Args[1:]...)
	if errors.Is(err, cmd.ErrProgram) {
		// The diagnostic has already been written.
		os.Exit(1)
	}

	if err != nil {
		log.Error(
			"run failed",
			slog.Any("error", err),
		) // slog automatically uses LogValue()
		os.Exit(1)
	}
}
