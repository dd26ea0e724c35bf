package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"SentiCast/internal/di"
	"SentiCast/internal/repository"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy a predictions CSV into the ClickHouse table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(cfg.ClickHouse.Host) == "" {
				return fmt.Errorf("clickhouse.host is required for import")
			}
			if file == "" {
				file = cfg.Forecast.CSVPath
			}
			l := ctx.cliLogger()

			rows, err := repository.NewCSVSource(file, l).Load(cmd.Context())
			if err != nil {
				return err
			}

			client, cleanup, err := di.ProvideClickHouseClient(cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			dst, err := repository.NewClickHouseSource(client, cfg.ClickHouse.Table, l)
			if err != nil {
				return err
			}
			if err := dst.Init(cmd.Context()); err != nil {
				return err
			}
			if err := dst.StoreBatch(cmd.Context(), rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows from %s into %s\n", len(rows), file, dst.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV file to import (defaults to forecast.csv_path)")
	return cmd
}
