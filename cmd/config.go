package cmd

import (
	"errors"
	"os"

	"github.com/shiroyk/jsrt/lib/config"
	"github.com/shiroyk/jsrt/lib/utils"
	"github.com/spf13/cobra"
)

// ErrConfigExists the configuration file already exists
var ErrConfigExists = errors.New("configuration file is already exists")

var configGenArg string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "jsrt configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configGenArg != "" {
			return writeDiskConfig(configGenArg)
		}
		return cmd.Help()
	},
}

func writeDiskConfig(path string) error {
	file, err := utils.ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err = os.Stat(file); !errors.Is(err, os.ErrNotExist) {
		if err != nil {
			return err
		}
		return ErrConfigExists
	}
	return config.WriteConfig(file, config.DefaultConfig())
}

func init() {
	configCmd.Flags().StringVarP(&configGenArg, "gen", "g", "", "generate default configuration file")
	rootCmd.AddCommand(configCmd)
}
