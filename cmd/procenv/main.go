/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/go-ptrace/procenv/internal/flags"
	"github.com/go-ptrace/procenv/internal/inject"
	"github.com/go-ptrace/procenv/internal/logging"
	"github.com/go-ptrace/procenv/internal/precheck"
	"github.com/go-ptrace/procenv/pkg/errdefs"
)

// watchForInterrupt asks any in-flight injection to unwind and detach
// as soon as it reaches its next checkpoint, rather than leaving the
// target stopped if the operator hits Ctrl-C mid-session.
func watchForInterrupt() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		s := <-sig
		logrus.WithField("signal", s).Warn("received signal, unwinding target before exit")
		inject.RequestInterrupt()
	}()
}

func main() {
	cmd := &cobra.Command{
		Use:     "procenv",
		Short:   "Read an environment variable out of a running process by ptrace injection",
		Version: Version,
	}
	flagSet := flags.NewFlags(cmd)

	cmd.RunE = func(*cobra.Command, []string) error {
		return run(flagSet.Args)
	}

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "procenv:", err)
		os.Exit(1)
	}
}

func run(args *flags.Args) error {
	if err := logging.SetUp(args.LogLevel); err != nil {
		return errors.Wrap(err, "set up logging")
	}

	if args.DiagnoseOnly {
		if msg := precheck.Diagnose(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "kernel.yama.ptrace_scope is unrestricted or could not be read")
		return nil
	}

	if args.PID <= 0 {
		return errors.Errorf("cannot accept negative pids: %d", args.PID)
	}
	if args.EnvName == "" {
		return errors.New("--env is required")
	}

	logrus.WithFields(logrus.Fields{"pid": args.PID, "env": args.EnvName}).Debug("starting injection")

	watchForInterrupt()
	value, present, err := inject.Run(args.PID, args.EnvName)
	if err != nil {
		if errdefs.IsAttachDenied(err) {
			if msg := precheck.Diagnose(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
		}
		return err
	}

	if present {
		fmt.Println(value)
	}
	return nil
}
