package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jinjade/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Drop the output cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cache, err := driver.OpenDiskCache("jinjade")
		if err != nil {
			return err
		}
		if err := cache.DropAll(); err != nil {
			return err
		}
		if quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet"); !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "cache dropped")
		}
		return nil
	},
}
