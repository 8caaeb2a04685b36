/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package inject

import (
	"github.com/go-ptrace/procenv/internal/constant"
	"github.com/go-ptrace/procenv/internal/ptrace"
)

// remoteLookup writes the call trampoline for targetSymbol (the
// target's own mapped copy of libc's getenv) at page, restores the
// baseline text that acquireScratch overwrote, and then runs the
// target through a call into it. The target's instruction pointer is
// left just past the embedded breakpoint when this returns
// successfully; the caller is responsible for winding everything back
// before detaching.
func remoteLookup(t *ptrace.Tracee, page uintptr, baseline *ptrace.Regs, savedBaselineText [8]byte, targetSymbol uintptr, name string) (value string, present bool, err error) {
	block, nameOffset, err := buildTrampoline(page, targetSymbol, name)
	if err != nil {
		return "", false, err
	}
	if err = t.PokeText(page, block, nil); err != nil {
		return "", false, err
	}

	// The mmap prelude must be gone from baselineRip before the target
	// runs free under the call below, or a later stray jump back to
	// baselineRip would re-trigger it.
	if err = t.PokeText(uintptr(baseline.Rip), savedBaselineText[:], nil); err != nil {
		return "", false, err
	}

	working := *baseline
	working.Rax = 0 // no vector registers used, matching the C calling convention for a non-variadic call
	working.Rdi = uint64(page) + uint64(nameOffset)
	working.Rip = uint64(page)

	if err = t.SetRegs(&working); err != nil {
		return "", false, err
	}
	if err = t.ContUntilTrap(); err != nil {
		return "", false, err
	}

	after, err := t.GetRegs()
	if err != nil {
		return "", false, err
	}
	if after.Rax == 0 {
		return "", false, nil
	}

	value, err = readCString(t, uintptr(after.Rax))
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// readCString walks the target's memory word by word from addr,
// examining each byte individually for a NUL terminator and trimming
// the result at that exact offset.
//
// The C source this replaces fetched one word at a time too, but
// through a pointer typed narrower than the word it actually read,
// and stopped as soon as any byte in that truncated view looked like
// a terminator -- which, on a match, kept the rest of that same word
// in the result, trailing garbage included. Scanning every byte of
// the full word removes that.
func readCString(t *ptrace.Tracee, addr uintptr) (string, error) {
	var buf []byte
	for {
		word, err := t.PeekText(addr, constant.WordSize)
		if err != nil {
			return "", err
		}

		nul := -1
		for i, b := range word {
			if b == 0 {
				nul = i
				break
			}
		}
		if nul >= 0 {
			buf = append(buf, word[:nul]...)
			break
		}
		buf = append(buf, word...)
		addr += uintptr(constant.WordSize)
	}
	return string(buf), nil
}
