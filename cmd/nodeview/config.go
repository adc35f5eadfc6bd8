package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/nodeview/internal/config"
	"github.com/vango-dev/nodeview/internal/errors"
)

func configCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage nodeview.json",
	}
	cmd.AddCommand(configInitCmd(configPath), configShowCmd(configPath))
	return cmd
}

func configInitCmd(configPath *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a nodeview.json with defaults",
		Long: `Write a nodeview.json with default settings to the working directory,
or to the path given with --config.

Examples:
  nodeview config init
  nodeview config init --config deploy/nodeview.json --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configPath
			if path == "" {
				wd, err := os.Getwd()
				if err != nil {
					return err
				}
				path = filepath.Join(wd, config.ConfigFileName)
			}
			if err := initConfig(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")

	return cmd
}

func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New("E122").
			WithDetailf("%s already exists", path).
			WithSuggestion("Pass --force to overwrite it")
	}
	return config.New().SaveTo(path)
}

func configShowCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return showConfig(cmd.OutOrStdout(), cfg)
		},
	}
}

func showConfig(w io.Writer, cfg *config.Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
