package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/smartshape-mcp/internal/config"
	"github.com/ironsheep/smartshape-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := os.Getenv(config.EnvConfigFile)

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version", "-v", "version":
			fmt.Printf("smartshape-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		case "--config", "-c":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "--config requires a file path")
				os.Exit(2)
			}
			i++
			configPath = args[i]
		default:
			fmt.Fprintf(os.Stderr, "unknown option: %s\n", args[i])
			os.Exit(2)
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.LoadWith(configPath, os.LookupEnv)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	if cfg.Debug() {
		log.Printf("SmartShape MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		log.Printf("epsilon=%v accept_threshold=%v workers=%d",
			cfg.Recognition.Epsilon, cfg.Recognition.AcceptThreshold, cfg.Workers)
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp() {
	fmt.Println("smartshape-mcp - MCP server for freehand shape recognition")
	fmt.Println()
	fmt.Println("Usage: smartshape-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config, -c FILE   Load settings from a TOML file")
	fmt.Println("  --version, -v       Print version information")
	fmt.Println("  --help, -h          Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  SMARTSHAPE_MCP_CONFIG=FILE            TOML settings file")
	fmt.Println("  SMARTSHAPE_MCP_DRAW_EPSILON=5         Simplification tolerance (1-1000)")
	fmt.Println("  SMARTSHAPE_MCP_ACCEPT_THRESHOLD=0.2   Minimum score to accept a shape")
	fmt.Println("  SMARTSHAPE_MCP_WORKERS=0              Batch workers (0 = one per CPU)")
	fmt.Println("  SMARTSHAPE_MCP_LOG_LEVEL=debug        Enable debug logging")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
}
