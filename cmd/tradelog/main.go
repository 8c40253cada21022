package main

import (
	"fmt"
	"os"

	"tradelog/internal/cli"
	"tradelog/internal/config"
	"tradelog/internal/logging"
)

func main() {
	cfg, err := config.Load(os.Getenv("TRADELOG_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.File = cfg.Logging.File
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
