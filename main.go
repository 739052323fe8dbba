package main

import (
	"os"

	_ "pushbridge/cmd"
	"pushbridge/cmd/root"
	"pushbridge/internal/config"
	"pushbridge/internal/logger"
)

func main() {
	isServerMode := len(os.Args) > 1 && os.Args[1] == "server"
	logger.InitLogger(&config.Config.Log, isServerMode)

	if err := root.RootCmd.Execute(); err != nil {
		logger.Fatal(err)
	}
	os.Exit(0)
}
