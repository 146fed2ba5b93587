package main

import (
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joshuapare/arenakit/cmd/arenaexplorer/logger"
)

var (
	version = "0.1.0"
)

func main() {
	args := os.Args[1:]
	debugMode := false

	for _, arg := range args {
		switch arg {
		case "--help", "-h":
			printHelp()
			os.Exit(0)
		case "--version", "-v":
			fmt.Printf("arenaexplorer %s\n", version)
			os.Exit(0)
		case "--debug", "-d":
			debugMode = true
		}
	}

	// Initialize logger (must be before any logging calls)
	if err := logger.Init(logger.Options{
		Enabled: debugMode,
		Level:   slog.LevelDebug,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logging: %v\n", err)
	}

	logger.Info("starting arenaexplorer",
		"debug", debugMode,
		"segment_size", workloadSegmentSize,
		"max_request", workloadMaxRequest)

	m, err := NewModel()
	if err != nil {
		logger.Error("failed to build arena", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		logger.Error("TUI error", "error", err)
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}

	// Clean up resources
	if model, ok := finalModel.(Model); ok {
		if err := model.Close(); err != nil {
			logger.Warn("error closing arena", "error", err)
			fmt.Fprintf(os.Stderr, "Warning: error closing arena: %v\n", err)
		}
	}

	logger.Info("arenaexplorer exited normally")
}

func printHelp() {
	fmt.Println("arenaexplorer - Live TUI for watching a segmented arena under load")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  arenaexplorer [options]")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Runs a synthetic allocate/free workload against a segmented arena and")
	fmt.Println("  shows placement behavior as it happens.")
	fmt.Println()
	fmt.Println("  Features:")
	fmt.Println("    - Per-segment utilization bars with the placement cursor marked")
	fmt.Println("    - Running counters: allocations, frees, fallback traffic, probes")
	fmt.Println("    - Adjustable workload rate")
	fmt.Println()
	fmt.Println("  Controls:")
	fmt.Println("    ↑/k, ↓/j    Select segment")
	fmt.Println("    space       Pause/resume the workload")
	fmt.Println("    +/-         Faster/slower workload")
	fmt.Println("    r           Reset the arena")
	fmt.Println("    ?           Show help")
	fmt.Println("    q           Quit")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -d, --debug    Enable debug logging to ~/.arenaexplorer/logs/")
	fmt.Println("  -h, --help     Show this help message")
	fmt.Println("  -v, --version  Show version information")
	fmt.Println()
	fmt.Println("For batch workloads, use the 'arenactl stress' command instead.")
}
