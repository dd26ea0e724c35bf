package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"SentiCast/internal/di"
	"SentiCast/internal/services/forecast"
	"SentiCast/internal/usecase"
	"SentiCast/pkg/metrics"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Load the dataset once and list models and runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			l := ctx.cliLogger()
			src, cleanup, err := di.ProvideObservationSource(cfg, l)
			if err != nil {
				return err
			}
			defer cleanup()

			rec := metrics.NewWithRegisterer(prometheus.NewRegistry())
			catalog := usecase.NewCatalogService(src, rec, l)
			if _, err := catalog.Reload(cmd.Context(), true); err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if model != "" {
				return printRuns(out, catalog, model)
			}

			summaries, err := usecase.NewForecastViewUseCase(catalog, rec, l).Models()
			if err != nil {
				return err
			}
			st := catalog.Status()
			fmt.Fprintf(out, "Source:  %s\n", st.Source)
			fmt.Fprintf(out, "Rows:    %d (%d skipped)\n", st.Rows, st.Skipped)
			fmt.Fprintf(out, "Runs:    %d\n", st.Runs)

			rows := make([][]string, 0, len(summaries))
			for _, s := range summaries {
				d := s.Defaults
				rows = append(rows, []string{
					s.Name,
					s.Label,
					strconv.Itoa(s.Runs),
					strings.Join([]string{d.WindowSize, d.Scaler, d.LossFn, d.BatchSize, d.Epochs}, " / "),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Model", "Label", "Runs", "Default (window / scaler / loss / batch / epochs)"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "List the runs of one model")
	return cmd
}

func printRuns(out io.Writer, catalog *usecase.CatalogService, model string) error {
	snap, err := catalog.Snapshot()
	if err != nil {
		return err
	}
	entry, ok := snap.Catalog.Entry(model)
	if !ok {
		return fmt.Errorf("%w: %s", usecase.ErrUnknownModel, model)
	}
	rows := make([][]string, 0, len(entry.Configs))
	for _, c := range entry.Configs {
		rows = append(rows, []string{
			forecast.EncodeRunID(c),
			strconv.FormatBool(c.UseSentiment),
			c.WindowSize,
			c.Scaler,
			c.LossFn,
			c.BatchSize,
			c.Epochs,
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Run", "Sentiment", "Window", "Scaler", "Loss", "Batch", "Epochs"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight, alignRight},
	))
	return nil
}
