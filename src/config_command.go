package main

import (
	"fmt"

	"github.com/contre95/beetwatch/src/infra/beetsconf"
	"github.com/spf13/cobra"
)

func newConfigCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgManager, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), cfgManager.GetYAML())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "render",
		Short: "Render the beets configuration and print its path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgManager, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			beets := cfgManager.Get().Beets
			path, err := beetsconf.Render(beets.ConfigPath, beets.RenderedConfigPath)
			if err != nil {
				return fmt.Errorf("failed to render beets config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return cmd
}
