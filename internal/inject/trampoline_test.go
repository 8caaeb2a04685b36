/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package inject

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-ptrace/procenv/pkg/errdefs"
)

func TestComputeCallDisplacementInRange(t *testing.T) {
	disp, err := computeCallDisplacement(0x1000, 0x2000)
	assert.NoError(t, err)
	assert.Equal(t, int32(0x2000-0x1000-relCallLen), disp)
}

func TestComputeCallDisplacementOverflow(t *testing.T) {
	_, err := computeCallDisplacement(0, uintptr(math.MaxInt64))
	assert.Error(t, err)
	assert.True(t, errdefs.IsUnreachable(err))
}

func TestBuildTrampolineLayout(t *testing.T) {
	page := uintptr(0x10000)
	symbol := page + 0x500

	block, nameOffset, err := buildTrampoline(page, symbol, "PATH")
	assert.NoError(t, err)
	assert.Equal(t, 6, nameOffset)

	assert.Equal(t, byte(opCall), block[0])
	assert.Equal(t, byte(opBreak), block[5])
	assert.Equal(t, "PATH", string(block[6:10]))

	assert.Zero(t, len(block)%8, "block length must be a multiple of the word size")
	assert.True(t, len(block) >= 6+len("PATH"))

	disp, err := computeCallDisplacement(page, symbol)
	assert.NoError(t, err)
	gotDisp := int32(block[1]) | int32(block[2])<<8 | int32(block[3])<<16 | int32(block[4])<<24
	assert.Equal(t, disp, gotDisp)
}

func TestBuildTrampolinePadsToPowerOfTwo(t *testing.T) {
	block, _, err := buildTrampoline(0, 0x100, "X")
	assert.NoError(t, err)
	assert.Equal(t, 8, len(block))

	block, _, err = buildTrampoline(0, 0x100, "A_NAME_LONG_ENOUGH_TO_CROSS_EIGHT_BYTES")
	assert.NoError(t, err)
	assert.Equal(t, 64, len(block))
}

func TestBuildTrampolineUnreachable(t *testing.T) {
	_, _, err := buildTrampoline(0, uintptr(math.MaxInt64), "X")
	assert.True(t, errdefs.IsUnreachable(err))
}

func TestNextPow2(t *testing.T) {
	cases := map[int]int{1: 1, 2: 2, 3: 4, 6: 8, 8: 8, 9: 16, 64: 64, 65: 128}
	for in, want := range cases {
		assert.Equal(t, want, nextPow2(in), "nextPow2(%d)", in)
	}
}
