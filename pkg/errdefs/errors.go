/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package errdefs

import (
	"syscall"

	"github.com/pkg/errors"
)

// Sentinel errors for the injection engine's error taxonomy, possibly
// wrapped with additional context. Raw errno failures are reported as
// an IoError instead (see below).
var (
	ErrAttachDenied     = errors.New("ptrace attach denied")
	ErrTargetGone       = errors.New("target exited or stopped for an unexpected signal")
	ErrMapNotFound      = errors.New("shared library not found in process maps")
	ErrUnreachable      = errors.New("call displacement exceeds 32 bits")
	ErrSyscallFailed    = errors.New("remote syscall failed")
	ErrProtocolMismatch = errors.New("instruction pointer landed somewhere unexpected")
)

// IsAttachDenied returns true if the error is due to ptrace attach being refused.
func IsAttachDenied(err error) bool {
	return errors.Is(err, ErrAttachDenied)
}

// IsTargetGone returns true if the target died or stopped unexpectedly mid-session.
func IsTargetGone(err error) bool {
	return errors.Is(err, ErrTargetGone)
}

// IsMapNotFound returns true if the C library could not be located in a process's maps.
func IsMapNotFound(err error) bool {
	return errors.Is(err, ErrMapNotFound)
}

// IsUnreachable returns true if the near-call displacement did not fit in 32 bits.
func IsUnreachable(err error) bool {
	return errors.Is(err, ErrUnreachable)
}

// IsSyscallFailed returns true if the remote mmap returned its error indicator.
func IsSyscallFailed(err error) bool {
	return errors.Is(err, ErrSyscallFailed)
}

// IsProtocolMismatch returns true if a single-step landed at an unexpected address.
func IsProtocolMismatch(err error) bool {
	return errors.Is(err, ErrProtocolMismatch)
}

// IoError wraps an unclassified errno from an underlying kernel call,
// propagated verbatim per the error taxonomy.
type IoError struct {
	Op  string
	Err syscall.Errno
}

func (e *IoError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// NewIoError wraps a raw errno observed during operation op.
func NewIoError(op string, errno syscall.Errno) error {
	return &IoError{Op: op, Err: errno}
}
