/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package flags

import (
	"github.com/spf13/cobra"

	"github.com/go-ptrace/procenv/internal/constant"
)

// Args holds every value the CLI accepts, populated by cobra the same
// way the teacher's own command package binds flags into its Args
// struct.
type Args struct {
	PID          int
	EnvName      string
	LogLevel     string
	DiagnoseOnly bool
}

// Flags pairs the destination struct with the cobra command whose flag
// set fills it in, mirroring the teacher's Flags{Args, F} pairing.
type Flags struct {
	Args *Args
}

// NewFlags allocates an Args struct and registers its fields onto cmd.
func NewFlags(cmd *cobra.Command) *Flags {
	args := &Args{}

	cmd.Flags().IntVarP(&args.PID, "pid", "p", 0, "process ID of the target to inspect")
	cmd.Flags().StringVarP(&args.EnvName, "env", "e", "", "name of the environment variable to read")
	cmd.Flags().StringVarP(&args.LogLevel, "log-level", "v", constant.DefaultLogLevel, "logging level: trace, debug, info, warn, error")
	cmd.Flags().BoolVar(&args.DiagnoseOnly, "diagnose-only", false, "only check the ptrace_scope precondition and exit")

	return &Flags{Args: args}
}
