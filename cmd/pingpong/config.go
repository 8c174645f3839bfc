package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouta0715/ping-pong-game/internal/config"
)

var flagForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
	Long: `Create or locate the per-user config file.

The file is searched after --config and before ./configs/pingpong.yaml.
Keys left out of a file keep their default values.

Examples:
  pingpong config init
  pingpong config init --force
  pingpong config path`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config to ~/.pingpong/config.yaml",
	Args:  cobra.NoArgs,
	Run:   runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the per-user config path",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.UserPath())
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&flagForce, "force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigInit(_ *cobra.Command, _ []string) {
	path := config.UserPath()
	if err := config.Init(path, flagForce); err != nil {
		if errors.Is(err, config.ErrExists) {
			fmt.Fprintf(os.Stderr, "Error: %v (use --force to overwrite)\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
		}
		os.Exit(1)
	}
	fmt.Printf("Wrote default config to %s\n", path)
}
