package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/formsense/repcoach/internal/exercise"
)

// commands maps subcommand names to their entry points.
var commands = map[string]func() error{
	"serve":    serve,
	"profiles": printProfiles,
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: repcoach [flags] [command]

Commands:
  serve      run the HTTP session server (default)
  profiles   print the canonical threshold profiles as JSON

Flags:
`)
	// flag package prints the registered flags after this header.
	fmt.Fprintln(os.Stderr, "  -listen addr   listen address for serve (default :8080)")
}

func printProfiles() error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(exercise.All())
}
