package main

import (
	"embed"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/go-storybook/storybook/internal/bootstrap"
	"github.com/go-storybook/storybook/internal/config"
	"github.com/go-storybook/storybook/internal/version"
)

//go:embed web/templates/*.html web/static
var webFS embed.FS

func main() {
	// Define flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Usage = printUsage
	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		version.PrintVersion()
		os.Exit(0)
	}

	// Check if command is provided
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	// Handle subcommands
	switch args[0] {
	case "server":
		runServer()
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [OPTIONS] COMMAND\n\n", os.Args[0])
	fmt.Println("StoryBook server")
	fmt.Println("\nCommands:")
	fmt.Println("  server    Start the web server")
	fmt.Println("\nOptions:")
	fmt.Println("  -v, --version    Show version information")
	fmt.Println("  -h, --help       Show this help message")
}

func runServer() {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	if err := bootstrap.Run(cfg, logger, webFS); err != nil {
		logger.Fatal().Err(err).Msg("failed to start application")
	}
}

func newLogger() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	return zerolog.New(os.Stdout).With().
		Timestamp().
		Str("app", version.App).
		Logger()
}
