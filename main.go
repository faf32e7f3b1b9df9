// Package main is the entry point for the buildlens CLI.
package main

import (
	"github.com/huangsam/buildlens/cmd"
	"github.com/huangsam/buildlens/internal/contract"
)

func main() {
	err := cmd.Execute()

	// Flush profiles before deciding the exit code; LogFatal never returns.
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Cannot stop profiling", profErr)
	}

	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
