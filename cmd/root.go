package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "review-platform",
	Short: "REST API backend for the content review platform",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	zap.ReplaceGlobals(logger)
	return logger
}
