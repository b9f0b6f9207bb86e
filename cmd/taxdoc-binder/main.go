package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/a3tai/taxdoc-binder/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// cfg is resolved once per invocation in initConfig
var cfg *config.Config

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taxdoc-binder",
		Short: "Bind a folder of tax documents into one bookmarked PDF",
		Long: `taxdoc-binder reads every PDF and scanned image in a folder, recognizes the
tax forms on each page and writes a single PDF whose outline groups them
into Income, Expenses and Others.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
	}

	config.DefineFlags(root.PersistentFlags(), config.DefaultConfig())

	root.AddCommand(bindCmd())
	root.AddCommand(classifyCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	// .env is optional
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	loaded, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	cfg = loaded

	logger, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	slog.SetDefault(logger)
	slog.Debug("configuration loaded", "config", cfg.String())
	return nil
}

// newLogger builds the process logger. Logs always go to w (stderr), which
// keeps stdout free for MCP stdio traffic.
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: slogLevel}

	var handler slog.Handler
	switch format {
	case config.FormatConsole:
		handler = slog.NewTextHandler(w, opts)
	case config.FormatJSON:
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	return slog.New(handler), nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxdoc-binder %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "Build time: %s\n", buildTime)
			fmt.Fprintf(cmd.OutOrStdout(), "Git commit: %s\n", gitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "Go version: %s\n", runtime.Version())
		},
	}
}
