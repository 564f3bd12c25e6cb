// Package main is the entry point of the devpulse CLI.
package main

import (
	"github.com/huangsam/devpulse/cmd"
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)

	err := cmd.Execute()
	iocache.CloseCaching()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	if err != nil {
		contract.LogFatal("devpulse failed", err)
	}
}
