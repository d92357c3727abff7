package cli

import (
	"fmt"
	"os"

	"github.com/dshills/gitrange/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the git-range plugin configuration",
}

var flagSiteName string

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter mkdocs.yml with the plugin enabled",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(flagConfig); err == nil {
			fmt.Fprintf(os.Stderr, "Config file already exists at %s\n", flagConfig)
			return nil
		}
		if err := config.Init(flagConfig, flagSiteName); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config file created at %s\n", flagConfig)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a plugin option (from, to, filter, include, change_types, timeout)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadSaved(flagConfig)
		if err != nil {
			return err
		}

		if err := config.SetField(&cfg, args[0], args[1]); err != nil {
			return err
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(&flagSiteName, "site-name", "", "site_name for the new file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
