package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"objgram/codec"
	"objgram/network"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	listenPort       int
	listenBufferSize int
	listenCount      int
	listenReuse      bool
)

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Print every map received on a port",
	RunE: func(cmd *cobra.Command, args []string) error {
		config := network.ConnectionConfig{
			LocalPort:  cfg.Port,
			BufferSize: cfg.BufferSize,
			Reuse:      listenReuse,
		}
		if cmd.Flags().Changed("port") {
			config.LocalPort = listenPort
		}
		if cmd.Flags().Changed("buffer-size") {
			config.BufferSize = listenBufferSize
		}

		conn, err := network.NewConnection(config, transfer)
		if err != nil {
			return err
		}
		defer conn.Close()

		if ip, err := network.LocalIPv4(); err == nil {
			logrus.Infof("Listening on %s:%d", ip, conn.LocalPort())
		} else {
			logrus.Infof("Listening on port %d", conn.LocalPort())
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		for received := 0; listenCount == 0 || received < listenCount; {
			v, addr, err := conn.Receive(ctx)
			if ctx.Err() != nil {
				return nil
			}
			if err != nil {
				// 壊れたデータグラムは捨てて待ち続ける
				logrus.Warnf("Dropped datagram: %v", err)
				continue
			}
			received++

			if p, err := codec.AsPayload(v); err == nil {
				fmt.Fprint(cmd.OutOrStdout(), renderPayload(addr.String(), p))
			} else {
				fmt.Fprint(cmd.OutOrStdout(), renderValue(addr.String(), v))
			}
		}
		return nil
	},
}

var broadcastAddrsCmd = &cobra.Command{
	Use:   "broadcast-addrs",
	Short: "List the broadcast address of each attached IPv4 subnet",
	RunE: func(cmd *cobra.Command, args []string) error {
		addrs, err := network.BroadcastAddrs()
		if err != nil {
			return err
		}
		for _, a := range addrs {
			fmt.Fprintln(cmd.OutOrStdout(), a)
		}
		return nil
	},
}

func init() {
	listenCmd.Flags().IntVarP(&listenPort, "port", "p", 0, "port to bind")
	listenCmd.Flags().IntVarP(&listenBufferSize, "buffer-size", "b", 0, "receive buffer size in bytes")
	listenCmd.Flags().IntVarP(&listenCount, "count", "n", 0, "exit after this many maps (0 = forever)")
	listenCmd.Flags().BoolVar(&listenReuse, "reuse", false, "share the port with other listeners")
}
