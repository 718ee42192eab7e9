package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/formulab/batchcalc/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "batchcalc",
	Short: "Cosmetic formulation and production batch tracker",
	Long:  "Manages an ingredient catalog and percentage-based formulations, scales them to production batch sizes, and tracks planned-versus-actual amounts per run.",
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
