package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"lplmaker/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(ctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			dir := filepath.Dir(target)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create config directory %q: %w", dir, err)
			}

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}

			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Edit RomsDir and the [playlist.<name>] tables, then run lplmaker.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration and playlists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			for _, path := range ctx.configPaths {
				fmt.Fprintf(out, "Loaded %s\n", path)
			}

			fmt.Fprintln(out, tableView{
				Title:   "Settings",
				Headers: []string{"Setting", "Value"},
				Rows: [][]string{
					{"RomsDir", cfg.RomsDir},
					{"CoresDir", cfg.CoresDir},
					{"RetroArchDir", cfg.RetroArchDir},
					{"Playlists", cfg.PlaylistsDir()},
					{"Mame", cfg.Mame},
					{"StateDir", cfg.StateDir},
					{"Staging", cfg.StagingDir()},
					{"TitleCache", yesNo(cfg.TitleCache)},
					{"Logging", fmt.Sprintf("%s/%s", cfg.Logging.Format, cfg.Logging.Level)},
				},
			}.render())

			catalogs, problems := cfg.Catalogs()
			rows := make([][]string, 0, len(catalogs))
			for _, c := range catalogs {
				rows = append(rows, []string{
					c.Key,
					c.Name,
					c.SourceDir,
					strings.Join(c.Extensions, ", "),
					yesNo(c.ScanArchives),
					yesNo(c.LookupTitles),
					c.CoreName,
				})
			}
			if len(rows) > 0 {
				fmt.Fprintln(out, tableView{
					Title:   "Playlists",
					Headers: []string{"Key", "Name", "Source", "Extensions", "Zips", "MAME", "Core"},
					Rows:    rows,
				}.render())
			} else {
				fmt.Fprintln(out, "No playlists configured")
			}
			for _, problem := range problems {
				fmt.Fprintf(out, "Skipped: %v\n", problem)
			}
			return nil
		},
	}
}
