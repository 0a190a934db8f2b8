// Package main provides the voiced CLI: voice cloning and speech
// synthesis for client receptionist deployments.
//
// Usage:
//
//	voiced <command> [args]
//
// Commands:
//
//	synthesize - Render text to speech
//	batch      - Render a file of lines to numbered WAVs
//	clone      - Clone a voice from a recording
//	client     - Manage clients and their voices
//	voice      - Inspect presets, archive and restore profiles
//	demo       - Render a sample line in every preset voice
//
// Configuration is stored in ~/.clerviq/voiced/config.yaml.
package main

import (
	"fmt"
	"os"

	"github.com/clerviq/voiced/cmd/voiced/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
