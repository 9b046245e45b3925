package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var outlineCmd = &cobra.Command{
	Use:   "outline",
	Short: "Extract per-document outlines from the input directory",
	Long: `Walks the input directory and writes one outline artifact per document
that carries a bookmark or heading structure. Documents without structure
produce no artifact.`,
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().StringVarP(&cfg.InputDir, "input", "i", cfg.InputDir, "directory of documents to process")
	outlineCmd.Flags().StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "directory for outline artifacts")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Outline extraction never touches the embedding service.
	return newRunner(newLogger(), nil).RunOutline(ctx)
}
