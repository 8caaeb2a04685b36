/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package inject

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/go-ptrace/procenv/internal/constant"
	"github.com/go-ptrace/procenv/internal/ptrace"
	"github.com/go-ptrace/procenv/pkg/errdefs"
)

const (
	sysMmap   = 9  // amd64 Linux raw syscall number for mmap
	sysMunmap = 11 // amd64 Linux raw syscall number for munmap
)

// scratchPrelude is the two-instruction stub installed at the
// baseline instruction pointer to drive a remote mmap: SYSCALL
// followed by an indirect jump through the register that will hold
// the syscall's return value. The last four bytes are unreachable
// padding that rounds the write up to the word size.
var scratchPrelude = [8]byte{0x0f, 0x05, 0xff, 0xe0, 0, 0, 0, 0}

// acquireScratch drives a remote mmap to obtain one anonymous,
// private, read+execute page in the target. It overwrites the text at
// baseline's instruction pointer with scratchPrelude and single-steps
// through it twice: once for the SYSCALL, once for the indirect jump
// it leaves behind, which lands execution on the freshly mapped page
// itself. savedText holds the 8 original bytes at that address so the
// caller can restore them later.
func acquireScratch(t *ptrace.Tracee, baseline *ptrace.Regs) (page uintptr, savedText [8]byte, err error) {
	if err = t.PokeText(uintptr(baseline.Rip), scratchPrelude[:], savedText[:]); err != nil {
		return 0, savedText, err
	}

	working := *baseline
	working.Rax = sysMmap
	working.Rdi = 0
	working.Rsi = uint64(constant.PageSize)
	working.Rdx = unix.PROT_READ | unix.PROT_EXEC
	working.R10 = unix.MAP_PRIVATE | unix.MAP_ANONYMOUS
	working.R8 = ^uint64(0) // fd -1: no backing file
	working.R9 = 0

	if err = t.SetRegs(&working); err != nil {
		return 0, savedText, err
	}
	if err = t.SingleStep(); err != nil {
		return 0, savedText, err
	}

	afterSyscall, err := t.GetRegs()
	if err != nil {
		return 0, savedText, err
	}
	if isSyscallError(afterSyscall.Rax) {
		return 0, savedText, fmt.Errorf("%w: mmap returned %#x", errdefs.ErrSyscallFailed, afterSyscall.Rax)
	}
	page = uintptr(afterSyscall.Rax)

	if err = t.SingleStep(); err != nil {
		return 0, savedText, err
	}
	landed, err := t.GetRegs()
	if err != nil {
		return 0, savedText, err
	}
	if uintptr(landed.Rip) != page {
		return 0, savedText, fmt.Errorf("%w: jumped to %#x, expected scratch page %#x", errdefs.ErrProtocolMismatch, landed.Rip, page)
	}

	return page, savedText, nil
}

// releaseScratch drives a remote munmap of page. It assumes the
// SYSCALL half of scratchPrelude is already present at baseline's
// instruction pointer (the caller re-installs it; see the
// restoration manager) and single-steps through exactly that one
// instruction, never reaching the indirect jump that follows it.
func releaseScratch(t *ptrace.Tracee, baseline *ptrace.Regs, page uintptr) error {
	working := *baseline
	working.Rax = sysMunmap
	working.Rdi = uint64(page)
	working.Rsi = uint64(constant.PageSize)

	if err := t.SetRegs(&working); err != nil {
		return err
	}
	return t.SingleStep()
}

// isSyscallError reports whether rax holds a raw syscall error
// return. The x86-64 Linux syscall ABI signals failure by returning
// a small negative number directly in the return register (-1
// through -4095, interpreted as unsigned that is a value just below
// 2^64) rather than the separate errno variable libc wrappers expose.
func isSyscallError(rax uint64) bool {
	return int64(rax) < 0
}
