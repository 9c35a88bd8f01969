package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexupport/alexupport/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "alexupport",
	Short: "Retrieval-augmented Amazon product support assistant",
	Long:  "Answers questions about a selected Amazon product by retrieving Q&A and review snippets from a vector index, generating a grounded answer, verifying its relevance, and proposing follow-up questions.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
