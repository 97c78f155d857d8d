// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package server

import (
	"fmt"
	"io"
	"strings"

	"github.com/vmware/headerguard/pkg/middleware"
	"github.com/vmware/headerguard/utils"
)

const bannerArt = ` _                     _                                  _ 
| |__   ___  __ _  __| | ___ _ __ __ _ _   _  __ _ _ __ __| |
| '_ \ / _ \/ _' |/ _' |/ _ \ '__/ _' | | | |/ _' | '__/ _' |
| | | |  __/ (_| | (_| |  __/ | | (_| | |_| | (_| | | | (_| |
|_| |_|\___|\__,_|\__,_|\___|_|  \__, |\__,_|\__,_|_|  \__,_|
                                 |___/                       `

func (ps *platformServer) printBanner(out io.Writer) {
	cfg := ps.serverConfig
	utils.InfoHeaderf(out, "%s\n", bannerArt)

	printBannerLine(out, "Server ID\t\t", ps.id.String())
	printBannerLine(out, "Host\t\t\t", cfg.Host)
	printBannerLine(out, "Port\t\t\t", fmt.Sprint(cfg.Port))

	if len(cfg.StaticDir) > 0 {
		uris := make([]string, 0, len(cfg.StaticDir))
		for _, dir := range cfg.StaticDir {
			_, uri := utils.DeriveStaticURIFromPath(dir)
			uris = append(uris, uri)
		}
		printBannerLine(out, "Static endpoints\t", strings.Join(uris, ", "))
	}

	printBannerLine(out, "Health endpoint\t\t", "/health")

	if cfg.EnablePrometheus {
		printBannerLine(out, "Prometheus endpoint\t", "/prometheus")
	}

	if chain, err := ps.middlewareManager.Resolve(cfg.Middleware); err == nil {
		names := make([]string, len(chain))
		for i, mw := range chain {
			names[i] = mw.Name()
		}
		printBannerLine(out, "Middleware\t\t", strings.Join(names, " -> "))
	}

	utils.Infof(out, "Enforced headers\n")
	for _, pair := range middleware.SecurityHeaderPairs() {
		printBannerLine(out, "  "+pair.Name+"\t", pair.Value)
	}
	_, _ = fmt.Fprintln(out)
}

func printBannerLine(out io.Writer, label, value string) {
	utils.Infof(out, "%s", label)
	utils.Valuef(out, "%s\n", value)
}
