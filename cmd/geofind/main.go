package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	if len(os.Args) > 1 && os.Args[0] != "" {
		switch os.Args[1] {
		case "search":
			exitOnError(runSearch(os.Args[2:]))
			return
		case "serve":
			exitOnError(runServe(os.Args[2:]))
			return
		case "export":
			exitOnError(runExport(os.Args[2:]))
			return
		case "version":
			fmt.Println("geofind " + version)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	// No subcommand → launch TUI
	exitOnError(runTUI())
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `geofind - nearby business finder

Usage:
  geofind                 Launch interactive TUI
  geofind search [flags]  Run one search and print the results
  geofind serve [flags]   Serve the JSON HTTP API
  geofind export [flags]  Export favorites to CSV
  geofind version         Show version

Configuration is read from GEOFIND_* environment variables and .env.
Run 'geofind search --help', 'geofind serve --help' or 'geofind export --help' for flags.
`)
}
