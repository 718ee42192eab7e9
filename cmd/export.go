package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/formulab/batchcalc/internal/export"
	"github.com/formulab/batchcalc/internal/model"
	"github.com/formulab/batchcalc/internal/production"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export [batch-id...]",
	Short: "Write a batch variance report as an XLSX workbook",
	Long:  "Exports the named batches, or every batch when none are given, with per-ingredient planned, actual, and variance columns.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := initStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		producer := production.NewProducer(st)

		var batches []model.Batch
		if len(args) == 0 {
			list, err := producer.ListBatches(cmd.Context())
			if err != nil {
				return err
			}
			for _, b := range list {
				full, err := producer.GetBatch(cmd.Context(), b.ID)
				if err != nil {
					return err
				}
				batches = append(batches, *full)
			}
		} else {
			for _, id := range args {
				full, err := producer.GetBatch(cmd.Context(), id)
				if err != nil {
					return err
				}
				batches = append(batches, *full)
			}
		}

		if err := export.BatchReport(exportOut, batches); err != nil {
			return err
		}
		zap.L().Info("report written",
			zap.String("path", exportOut),
			zap.Int("batches", len(batches)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "batches.xlsx", "output file path")
	rootCmd.AddCommand(exportCmd)
}
