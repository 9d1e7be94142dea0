package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/ironsheep/image-vectorize-mcp/internal/logger"
	"github.com/ironsheep/image-vectorize-mcp/internal/server"
	"github.com/ironsheep/image-vectorize-mcp/internal/vectorize"
	"github.com/sirupsen/logrus"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	envMemoryBudget = "VECTORIZE_MCP_MEMORY_BUDGET_MB"
	envMaxTime      = "VECTORIZE_MCP_MAX_TIME_MS"

	defaultMemoryBudgetMB = 1024
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("image-vectorize-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			fmt.Println("image-vectorize-mcp - MCP server that traces raster images into vector paths")
			fmt.Println()
			fmt.Println("Usage: image-vectorize-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Printf("  %s=debug        Log level (debug, info, warn, error)\n", logger.EnvLogLevel)
			fmt.Printf("  %s=%d   Largest edge workspace allowed, 0 for unlimited\n", envMemoryBudget, defaultMemoryBudgetMB)
			fmt.Printf("  %s=%d   Default processing budget per call\n", envMaxTime, vectorize.DefaultMaxProcessingTimeMs)
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
			return
		}
	}

	log := logger.WithField("component", "main")

	memoryMB := envInt(log, envMemoryBudget, defaultMemoryBudgetMB)
	maxTimeMs := envInt(log, envMaxTime, vectorize.DefaultMaxProcessingTimeMs)

	log.WithFields(logrus.Fields{
		"version":     Version,
		"build_time":  BuildTime,
		"commit":      GitCommit,
		"memory_mb":   memoryMB,
		"max_time_ms": maxTimeMs,
	}).Debug("Starting Image Vectorize MCP Server")

	srv := server.NewWithOptions(server.Options{
		Memory:              vectorize.NewMemoryBudget(memoryMB),
		MaxProcessingTimeMs: maxTimeMs,
	})
	if err := srv.Run(); err != nil {
		log.WithError(err).Fatal("Server error")
	}
}

// envInt reads a non-negative integer from the environment, falling back to
// def when the variable is unset or malformed.
func envInt(log *logrus.Entry, name string, def int64) int64 {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		log.WithFields(logrus.Fields{
			"variable": name,
			"value":    raw,
			"default":  def,
		}).Warn("Ignoring invalid environment value")
		return def
	}
	return v
}
