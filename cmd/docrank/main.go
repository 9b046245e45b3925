package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/docrank/internal/config"
	"github.com/dgallion1/docrank/internal/embed"
	"github.com/dgallion1/docrank/internal/lang"
	"github.com/dgallion1/docrank/internal/pipeline"
	"github.com/spf13/cobra"
)

// cfg starts from the environment; command flags write straight into it.
var (
	cfg     = config.Load()
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "docrank",
	Short: "Extract document outlines and rank sections by persona relevance",
	Long: `docrank reads documents (PDF, Markdown, HTML, DOCX, plain text, CSV),
extracts their heading structure, and optionally ranks every heading against
a persona's role and goal using an embedding model.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.EmbedBaseURL, "endpoint", cfg.EmbedBaseURL, "embedding server base URL")
	rootCmd.PersistentFlags().StringVar(&cfg.EmbedModel, "model", cfg.EmbedModel, "embedding model name")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger builds the CLI logger: human-readable text on stderr so stdout
// stays clean for artifact paths and shell pipelines.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newProvider builds the embedding client from the effective configuration.
func newProvider(stats *embed.Stats) embed.Provider {
	return embed.NewClient(embed.ClientConfig{
		BaseURL:    cfg.EmbedBaseURL,
		Model:      cfg.EmbedModel,
		Timeout:    cfg.EmbedTimeout,
		Dimensions: cfg.EmbedDimensions,
		Stats:      stats,
	})
}

// newRunner wires the batch pipeline shared by the outline and rank commands.
func newRunner(log *slog.Logger, stats *embed.Stats) *pipeline.Runner {
	return pipeline.NewRunner(cfg, newProvider(stats), lang.New(), stats, log)
}

// statsWindow is how far back the embedding latency snapshot looks.
const statsWindow = 10 * time.Minute

func newStats() *embed.Stats {
	return embed.NewStats(statsWindow)
}
