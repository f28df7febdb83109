package app

import (
	"github.com/blackwell-systems/opdsgen/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective feed configuration",
		Long: `Print the configuration opdsgen would use, after applying the config file
and OPDSGEN_* environment variables. With --save, write it to the config file
so it can be edited.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !save {
				return config.Write(cmd.OutOrStdout(), cfg)
			}
			path := flagConfig
			if path == "" {
				path = config.DefaultPath()
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			ok("Saved config to %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Write the effective configuration to the config file")
	return cmd
}
