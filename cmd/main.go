// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/vmware/headerguard/pkg/config"
	"github.com/vmware/headerguard/pkg/middleware"
	"github.com/vmware/headerguard/pkg/server"
	"github.com/vmware/headerguard/utils"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "headerguard",
		Short:        "HTTP server that stamps security headers on every response",
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newStartServerCmd(), newPrintHeadersCmd())
	return root
}

func newStartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Start server",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := config.NewViper()
			if err := config.BindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			serverConfig, err := config.Load(v)
			if err != nil {
				return err
			}

			platformServer, err := server.NewPlatformServer(serverConfig)
			if err != nil {
				return err
			}

			// start server
			syschan := make(chan os.Signal, 1)
			platformServer.StartServer(syschan)
			return nil
		},
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func newPrintHeadersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print-headers",
		Short: "Print the security headers added to every response",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, pair := range middleware.SecurityHeaderPairs() {
				utils.Infof(out, "%s: ", pair.Name)
				utils.Valuef(out, "%s\n", pair.Value)
			}
		},
	}
}
