/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package inject

import (
	"runtime"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/go-ptrace/procenv/internal/constant"
	"github.com/go-ptrace/procenv/internal/mapping"
	"github.com/go-ptrace/procenv/internal/ptrace"
	"github.com/go-ptrace/procenv/internal/symbol"
)

// state names one point in the attach/inject/restore/detach sequence.
// Each one marks what has been done to the target so far and, read in
// reverse from wherever the session stopped advancing, exactly what
// unwind still needs to run.
type state int

const (
	stateIdle state = iota
	stateAttached
	stateBaselineCaptured
	stateMmapDone
	stateOnScratchPage
	stateCallDone
	stateBackAtBaseline
	stateUnmapped
	stateRestored
	stateDetached
)

func (s state) String() string {
	names := [...]string{
		"idle", "attached", "baseline-captured", "mmap-done", "on-scratch-page",
		"call-done", "back-at-baseline", "unmapped", "restored", "detached",
	}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Session drives one attach -> inject -> restore -> detach cycle
// against a single target process. It is not safe for concurrent use
// and is meant for one Run call; create a new Session per lookup.
type Session struct {
	tracee *ptrace.Tracee

	state state

	baseline     ptrace.Regs
	baselineText [8]byte
	scratchPage  uintptr
}

// Run attaches to pid, looks up name in its environment, restores the
// target to its pre-attach state regardless of outcome, detaches, and
// reports whether the variable was present and, if so, its value.
//
// ptrace calls must all originate from the OS thread that performed
// the attach, so Run locks the calling goroutine to its current
// thread for its whole duration.
func Run(pid int, name string) (value string, present bool, err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	clearInterrupt()
	s := &Session{tracee: ptrace.New(pid)}
	return s.run(name)
}

func (s *Session) run(name string) (value string, present bool, err error) {
	defer func() {
		if unwindErr := s.unwind(); unwindErr != nil {
			if err == nil {
				err = unwindErr
			} else {
				logrus.WithError(unwindErr).Warn("best-effort restoration of target did not fully complete")
			}
		}
	}()

	if err = s.attach(); err != nil {
		return "", false, err
	}
	if err = checkInterrupted(); err != nil {
		return "", false, err
	}

	localBase, localSymbol, err := localGetenv()
	if err != nil {
		return "", false, errors.Wrap(err, "resolve getenv in this process")
	}

	if err = s.captureBaseline(); err != nil {
		return "", false, err
	}
	if err = checkInterrupted(); err != nil {
		return "", false, err
	}

	targetBase, err := mapping.FindLibrary(s.tracee.PID(), constant.LibcNeedle)
	if err != nil {
		return "", false, err
	}
	targetSymbol := symbol.Resolve(targetBase, localBase, localSymbol)

	if err = s.acquireScratch(); err != nil {
		return "", false, err
	}
	if err = checkInterrupted(); err != nil {
		return "", false, err
	}

	value, present, err = remoteLookup(s.tracee, s.scratchPage, &s.baseline, s.baselineText, targetSymbol, name)
	if err != nil {
		return "", false, err
	}
	s.state = stateCallDone

	return value, present, nil
}

func (s *Session) attach() error {
	if err := s.tracee.Attach(); err != nil {
		return err
	}
	s.state = stateAttached
	return nil
}

func (s *Session) captureBaseline() error {
	regs, err := s.tracee.GetRegs()
	if err != nil {
		return err
	}
	s.baseline = *regs
	s.state = stateBaselineCaptured
	return nil
}

func (s *Session) acquireScratch() error {
	page, saved, err := acquireScratch(s.tracee, &s.baseline)
	s.baselineText = saved
	if err != nil {
		return err
	}
	s.scratchPage = page
	s.state = stateMmapDone

	regs, err := s.tracee.GetRegs()
	if err != nil {
		return err
	}
	if uintptr(regs.Rip) == page {
		s.state = stateOnScratchPage
	}
	return nil
}
