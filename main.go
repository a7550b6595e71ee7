package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/scriptura/internal/cli"
	"github.com/mrlokans/scriptura/internal/config"
	"github.com/mrlokans/scriptura/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "import-translation":
		cmd := cli.NewImportTranslationCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version":
		fmt.Printf("scriptura %s (%s)\n", Version, Commit)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`Scriptura - scripture reading storage engine

Usage: %s [command] [options]

Commands:
  serve                 Start the HTTP server (default)
  import-translation    Import a translation from a local JSON file
  version               Print version information
  help                  Show this help message

Run '%s <command> -h' for command-specific options.
`, os.Args[0], os.Args[0])
}
