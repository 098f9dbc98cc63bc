package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	verbose    bool
	maxPages   int
	heuristics string
	preflight  bool
}

func rootCmd() *cobra.Command {
	var g globalFlags
	root := &cobra.Command{
		Use:           "docoutline",
		Short:         "Extract titles and H1/H2/H3 outlines from PDFs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "log debug output")
	root.PersistentFlags().IntVar(&g.maxPages, "max-pages", 0, "read at most N pages per document (0 reads all)")
	root.PersistentFlags().StringVar(&g.heuristics, "heuristics", "", "YAML file overriding classifier heuristics")
	root.PersistentFlags().BoolVar(&g.preflight, "preflight", false, "validate each PDF with pdfcpu before reading")

	root.AddCommand(extractCmd(&g), evalCmd(&g), mcpCmd(&g))
	return root
}

// newLogger logs JSON to stderr so stdout stays free for results.
func (g *globalFlags) newLogger() *slog.Logger {
	level := slog.LevelInfo
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
