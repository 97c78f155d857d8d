// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var RequestCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_count",
		Help: "How many HTTP requests were served, by route group and status code",
	},
	[]string{"group", "code"})

var SecurityHeadersApplied = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "security_headers_applied_count",
		Help: "How many responses were sent with the security headers applied",
	})

// Register adds the collectors of this package to reg. collectors that are already registered are skipped.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{RequestCounter, SecurityHeadersApplied} {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}
