package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/contre95/beetwatch/src/features/importing"
	"github.com/contre95/beetwatch/src/features/metrics"
	"github.com/contre95/beetwatch/src/infra/database"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newHistoryCommand(configPath *string) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show the latest import dispatches",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgManager, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			db := cfgManager.Get().Database
			if !db.Enabled {
				return errors.New("dispatch history is disabled in the configuration")
			}
			store, err := database.NewSqliteHistory(db.Path)
			if err != nil {
				return fmt.Errorf("failed to open history database: %w", err)
			}
			defer store.Close()

			outcomes, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON || !isTerminal(out) {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(outcomes)
			}
			fmt.Fprintln(out, renderHistory(outcomes))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of dispatches to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func renderHistory(outcomes []importing.DispatchOutcome) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Started", "Action", "Result", "Duration", "Path", "Detail"})
	for _, o := range outcomes {
		detail := o.Error
		if o.Skipped {
			detail = o.SkipReason
		}
		tw.AppendRow(table.Row{
			o.StartedAt.Format(time.DateTime),
			string(o.Action),
			metrics.Result(o),
			strconv.FormatFloat(o.Duration.Seconds(), 'f', 1, 64) + "s",
			o.Path,
			detail,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, WidthMax: 60},
	})
	return tw.Render()
}
