package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank document sections by persona relevance",
	Long: `Extracts headings from every document in the input directory, scores each
against the persona's role and goal, and writes one aggregated ranking
artifact. The persona descriptor defaults to persona.json inside the input
directory; without one, sections are scored against an empty query.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().StringVarP(&cfg.InputDir, "input", "i", cfg.InputDir, "directory of documents to process")
	rankCmd.Flags().StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "directory for the ranking artifact")
	rankCmd.Flags().StringVar(&cfg.PersonaFile, "persona", cfg.PersonaFile, "path to the persona descriptor")
	rankCmd.Flags().IntVarP(&cfg.WorkerCount, "workers", "w", cfg.WorkerCount, "documents scored concurrently")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log := newLogger()
	stats := newStats()
	runner := newRunner(log, stats)
	return runner.RunRank(ctx)
}
