// Command fluxgen generates reducer dispatch code from CUE, YAML or
// directive-annotated Go descriptions.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/fluxcore/internal/cli"
)

func main() {
	slog.SetDefault(createLogger(os.Getenv("FLUXGEN_LOG_LEVEL")))

	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "fluxgen: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}

func createLogger(level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(level),
	}))
}

// parseLevel converts a level name to slog.Level. Unknown names mean warn.
func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
