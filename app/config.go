package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecc24clmk/clmk-site/internal/config"
)

func init() { //nolint: gochecknoinits
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "Dump as JSON instead of TOML")

	configCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(configCmd)
}

var (
	dumpJSON bool

	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	dumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Print the merged configuration (main.toml plus env override)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, errRead := config.ReadConfig(configPath)
			if errRead != nil {
				return errRead
			}

			var (
				out     string
				errDump error
			)

			if dumpJSON {
				out, errDump = config.DumpConfigJSON(&c)
			} else {
				out, errDump = config.DumpConfig(&c)
			}

			if errDump != nil {
				return errDump
			}

			_, errDump = fmt.Fprint(cmd.OutOrStdout(), out)

			return errDump
		},
	}
)
