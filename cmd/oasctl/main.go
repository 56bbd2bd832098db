package main

import (
	"fmt"
	"os"

	"github.com/oas-switchboard/broadcaster/pkg/common/config"
	"github.com/oas-switchboard/broadcaster/pkg/common/logger"
	"github.com/spf13/cobra"
)

var Version = "dev"

var configPath string

func main() {
	logger.Init()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "oasctl",
		Short:         "Operate the OA Switchboard broadcaster",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (defaults to $OAS_CONFIG)")

	root.AddCommand(payloadCmd())
	root.AddCommand(sendCmd())
	root.AddCommand(settingsCmd())
	root.AddCommand(recordsCmd())
	root.AddCommand(tokenCmd())
	return root
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Load()
	}
	return config.LoadFile(configPath)
}
