package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"SentiCast/internal/services/sentiment"
	"SentiCast/internal/usecase"
)

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	var sample int

	cmd := &cobra.Command{
		Use:   "classify [text]",
		Short: "Send text to every sentiment endpoint and print the consensus",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			text := strings.TrimSpace(strings.Join(args, " "))
			if sample > 0 {
				if sample > len(usecase.SampleInputs) {
					return fmt.Errorf("--sample must be between 1 and %d", len(usecase.SampleInputs))
				}
				text = usecase.SampleInputs[sample-1]
			}
			if text == "" {
				return errors.New("text is required (pass it as an argument or use --sample)")
			}

			fan := sentiment.NewFanOutFromConfig(cfg, ctx.cliLogger())
			cls := fan.Classify(cmd.Context(), text)

			rows := make([][]string, 0, len(cls.Results))
			for _, r := range cls.Results {
				rows = append(rows, []string{r.Model, r.Sentiment, r.Confidence, r.Note})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Text: %s\n", text)
			fmt.Fprintln(out, renderTable(
				[]string{"Model", "Sentiment", "Confidence", "Note"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
			))
			fmt.Fprintf(out, "Overall: %s\n", cls.Overall)
			return nil
		},
	}

	cmd.Flags().IntVar(&sample, "sample", 0, "Classify one of the built-in sample headlines (1-based)")
	return cmd
}
