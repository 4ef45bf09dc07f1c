package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/andersone1/NMdata/pkg/nmlog"
)

func main() {
	rootCmd := newRootCmd()

	// The global level is adjusted again in the root PersistentPreRun
	// once --debug has been parsed.
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	userLogger := nmlog.NewUserLogger(ctx)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
