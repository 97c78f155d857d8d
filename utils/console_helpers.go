// Copyright 2019-2021 VMware, Inc.
// SPDX-License-Identifier: BSD-2-Clause

package utils

import "github.com/fatih/color"

// colored console printers used by the startup banner and CLI output
var (
	InfoHeaderf = color.New(color.FgHiBlue).Add(color.Bold).FprintfFunc()
	Infof       = color.New(color.FgHiCyan).FprintfFunc()
	Valuef      = color.New(color.FgHiWhite).FprintfFunc()
)
