/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package inject drives the remote call that reads an environment
// variable out of a traced process: acquiring a scratch page of
// executable memory in the target via a hand-built mmap prelude,
// writing a small trampoline that calls a resolved libc symbol there,
// and restoring everything it touched before detaching. Modeled on
// the getenv_process/poke_text/compute_jmp sequence of the C
// implementation this system replaces, translated into typed,
// testable Go.
package inject

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/go-ptrace/procenv/internal/constant"
	"github.com/go-ptrace/procenv/pkg/errdefs"
)

const (
	opCall  = 0xe8 // near CALL rel32
	opBreak = 0xcc // INT3

	relCallLen = 5 // opcode byte + 4-byte rel32 operand
)

// computeCallDisplacement returns the rel32 operand of a near CALL
// instruction located at from that transfers control to to. Fails
// with ErrUnreachable if the displacement does not fit in a signed
// 32-bit integer, which can happen if the target library loaded far
// enough from the scratch page (load addresses are independently
// chosen by ASLR in each process).
func computeCallDisplacement(from, to uintptr) (int32, error) {
	delta := int64(to) - int64(from) - relCallLen
	if delta < math.MinInt32 || delta > math.MaxInt32 {
		return 0, fmt.Errorf("%w: call displacement %d from %#x to %#x", errdefs.ErrUnreachable, delta, from, to)
	}
	return int32(delta), nil
}

// buildTrampoline lays out the block written at the scratch page:
//
//	offset 0: E8 <rel32>   near CALL to targetSymbol
//	offset 5: CC           breakpoint, hit on return from the call
//	offset 6: name         NUL-terminated argument string
//
// padded with zero bytes to the next power of two that is at least
// TrampolineMinBlock+len(name), so the write length the debug
// transport receives is always a multiple of the word size. The
// trailing NUL itself is never written explicitly: the scratch page
// is a fresh anonymous mapping, so every byte past what this function
// writes is already zero.
func buildTrampoline(page, targetSymbol uintptr, name string) (block []byte, nameOffset int, err error) {
	disp, err := computeCallDisplacement(page, targetSymbol)
	if err != nil {
		return nil, 0, err
	}

	minLen := constant.TrampolineMinBlock + len(name)
	blockLen := nextPow2(minLen)

	block = make([]byte, blockLen)
	block[0] = opCall
	binary.LittleEndian.PutUint32(block[1:5], uint32(disp))
	block[5] = opBreak
	copy(block[constant.TrampolineMinBlock:], name)

	return block, constant.TrampolineMinBlock, nil
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
