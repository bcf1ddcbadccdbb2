package main

import (
	"fmt"
	"os"

	"objgram/internal/config"
	"objgram/internal/utils"
	"objgram/network"

	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	logLevel string

	cfg      config.Config
	transfer *network.Transfer
)

var rootCmd = &cobra.Command{
	Use:           "objgram",
	Short:         "Send and receive key=value maps as single UDP datagrams",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if err := utils.SetUpLogrus(cfg.LogLevel); err != nil {
			return err
		}

		c, err := cfg.NewCodec()
		if err != nil {
			return err
		}
		transfer = network.New(c)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides config)")

	rootCmd.AddCommand(sendCmd, listenCmd, broadcastAddrsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
