/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package ptrace is a thin, typed wrapper over the kernel's
// process-tracing primitives, built on golang.org/x/sys/unix the same
// way the rest of the corpus reaches for x/sys/unix for raw Linux
// syscalls it has no other library for.
package ptrace

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/go-ptrace/procenv/internal/constant"
	"github.com/go-ptrace/procenv/pkg/errdefs"
)

// Regs is the target's full general-purpose register file at a
// specific suspension point.
type Regs = unix.PtraceRegs

// Tracee binds one process ID for the duration of a single
// attach/detach session. Invariant: at most one live Tracee per target
// PID per invocation; Attach refuses to re-attach an already-attached
// Tracee.
type Tracee struct {
	pid      int
	attached bool
}

// New returns an unattached handle for pid.
func New(pid int) *Tracee {
	return &Tracee{pid: pid}
}

// PID returns the bound process ID.
func (t *Tracee) PID() int {
	return t.pid
}

// Attached reports whether Attach has succeeded and Detach has not
// yet been called.
func (t *Tracee) Attached() bool {
	return t.attached
}

// Attach initiates tracing and returns after the target has stopped.
func (t *Tracee) Attach() error {
	if t.attached {
		return fmt.Errorf("ptrace: pid %d already attached", t.pid)
	}
	if err := unix.PtraceAttach(t.pid); err != nil {
		return fmt.Errorf("%w: %s", errdefs.ErrAttachDenied, wrapErrno("PTRACE_ATTACH", err))
	}
	// PTRACE_ATTACH stops the target with SIGSTOP rather than SIGTRAP,
	// so that stop is the expected outcome here.
	if ws, err := t.waitStop(); err != nil && !(ws.Stopped() && ws.StopSignal() == unix.SIGSTOP) {
		return err
	}
	t.attached = true
	return nil
}

// Detach releases the target; it resumes at its current instruction
// pointer with its current registers.
func (t *Tracee) Detach() error {
	if err := unix.PtraceDetach(t.pid); err != nil {
		return wrapErrno("PTRACE_DETACH", err)
	}
	t.attached = false
	return nil
}

// GetRegs reads the full general-purpose register file.
func (t *Tracee) GetRegs() (*Regs, error) {
	var regs Regs
	if err := unix.PtraceGetRegs(t.pid, &regs); err != nil {
		return nil, wrapErrno("PTRACE_GETREGS", err)
	}
	return &regs, nil
}

// SetRegs writes the full general-purpose register file.
func (t *Tracee) SetRegs(regs *Regs) error {
	if err := unix.PtraceSetRegs(t.pid, regs); err != nil {
		return wrapErrno("PTRACE_SETREGS", err)
	}
	return nil
}

// PeekText reads n bytes from target text at addr. n must be a
// multiple of the native word size; violating inputs are rejected
// before any ptrace call is made.
func (t *Tracee) PeekText(addr uintptr, n int) ([]byte, error) {
	if n%constant.WordSize != 0 {
		return nil, fmt.Errorf("peek_text: length %d not a multiple of word size %d", n, constant.WordSize)
	}
	buf := make([]byte, n)
	if _, err := unix.PtracePeekText(t.pid, addr, buf); err != nil {
		return nil, wrapErrno("PTRACE_PEEKTEXT", err)
	}
	return buf, nil
}

// PokeText writes the bytes of newText to target text at addr. If old
// is non-nil it must have the same length as newText and is filled
// with the pre-write contents. len(newText) must be a multiple of the
// word size; violating inputs are rejected before any ptrace call is
// made.
func (t *Tracee) PokeText(addr uintptr, newText []byte, old []byte) error {
	n := len(newText)
	if n%constant.WordSize != 0 {
		return fmt.Errorf("poke_text: length %d not a multiple of word size %d", n, constant.WordSize)
	}
	if old != nil {
		if len(old) != n {
			return fmt.Errorf("poke_text: old buffer length %d does not match new buffer length %d", len(old), n)
		}
		saved, err := t.PeekText(addr, n)
		if err != nil {
			return err
		}
		copy(old, saved)
	}
	if _, err := unix.PtracePokeText(t.pid, addr, newText); err != nil {
		return wrapErrno("PTRACE_POKETEXT", err)
	}
	return nil
}

// SingleStep executes exactly one instruction, then returns once the
// target re-stops with trap.
func (t *Tracee) SingleStep() error {
	if err := unix.PtraceSingleStep(t.pid); err != nil {
		return wrapErrno("PTRACE_SINGLESTEP", err)
	}
	_, err := t.waitStop()
	return err
}

// ContUntilTrap resumes the target and returns when it stops with
// trap, i.e. hits our embedded breakpoint.
func (t *Tracee) ContUntilTrap() error {
	if err := unix.PtraceCont(t.pid, 0); err != nil {
		return wrapErrno("PTRACE_CONT", err)
	}
	_, err := t.waitStop()
	return err
}

// waitStop blocks for the next stop of the target and classifies it.
// Stopped-with-trap is the only outcome that returns a nil error;
// stopped-with-other-signal and exited/terminated both surface as
// ErrTargetGone.
func (t *Tracee) waitStop() (unix.WaitStatus, error) {
	var ws unix.WaitStatus
	if _, err := unix.Wait4(t.pid, &ws, 0, nil); err != nil {
		return ws, wrapErrno("wait4", err)
	}

	switch {
	case ws.Exited():
		return ws, fmt.Errorf("%w: exited with status %d", errdefs.ErrTargetGone, ws.ExitStatus())
	case ws.Signaled():
		return ws, fmt.Errorf("%w: terminated by signal %s", errdefs.ErrTargetGone, ws.Signal())
	case ws.Stopped():
		if ws.StopSignal() == unix.SIGTRAP {
			return ws, nil
		}
		return ws, fmt.Errorf("%w: stopped with signal %s", errdefs.ErrTargetGone, ws.StopSignal())
	default:
		return ws, fmt.Errorf("%w: unexpected wait status %v", errdefs.ErrTargetGone, ws)
	}
}

func wrapErrno(op string, err error) error {
	if errno, ok := err.(syscall.Errno); ok {
		return errdefs.NewIoError(op, errno)
	}
	return fmt.Errorf("%s: %w", op, err)
}
