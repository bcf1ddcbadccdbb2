package main

import (
	"errors"
	"fmt"
	"io"

	"objgram/codec"
	"objgram/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	sendAddress     string
	sendPort        int
	sendInteractive bool
)

var sendCmd = &cobra.Command{
	Use:   "send [key=value ...]",
	Short: "Send one map to address:port (a .255 address broadcasts)",
	RunE: func(cmd *cobra.Command, args []string) error {
		address, port := cfg.Address, cfg.Port
		if cmd.Flags().Changed("address") {
			address = sendAddress
		}
		if cmd.Flags().Changed("port") {
			port = sendPort
		}

		if sendInteractive {
			return sendInteractively(cmd, address, port)
		}

		if len(args) == 0 {
			return fmt.Errorf("nothing to send, pass key=value pairs or --interactive")
		}
		payload, err := codec.ParsePairs(args)
		if err != nil {
			return err
		}
		if err := transfer.Send(payload, address, port); err != nil {
			return err
		}
		logrus.Infof("Sent %d keys to %s:%d", len(payload), address, port)
		return nil
	},
}

func sendInteractively(cmd *cobra.Command, address string, port int) error {
	tty, err := utils.OpenTty()
	if err != nil {
		return err
	}
	defer utils.CloseTty()

	fmt.Fprintf(cmd.OutOrStdout(), "Enter key=value lines, an empty line sends, %q quits\n", utils.ExitCommand)
	for {
		payload, err := utils.ReadPayload(tty)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := transfer.Send(payload, address, port); err != nil {
			// 送信失敗は表示して続ける
			logrus.Error(err)
			continue
		}
		logrus.Infof("Sent %d keys to %s:%d", len(payload), address, port)
	}
}

func init() {
	sendCmd.Flags().StringVarP(&sendAddress, "address", "a", "", "destination host or broadcast address")
	sendCmd.Flags().IntVarP(&sendPort, "port", "p", 0, "destination port")
	sendCmd.Flags().BoolVarP(&sendInteractive, "interactive", "i", false, "read maps from the terminal")
}
