/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package ptrace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// PeekText/PokeText must reject a length that is not a multiple of
// the native word size before issuing any ptrace call, regardless of
// whether the pid is valid.
func TestPeekTextRejectsMisalignedLength(t *testing.T) {
	tr := New(0)
	_, err := tr.PeekText(0x1000, 7)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a multiple of word size")
}

func TestPokeTextRejectsMisalignedLength(t *testing.T) {
	tr := New(0)
	err := tr.PokeText(0x1000, make([]byte, 3), nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a multiple of word size")
}

func TestPokeTextRejectsMismatchedOldBuffer(t *testing.T) {
	tr := New(0)
	err := tr.PokeText(0x1000, make([]byte, 8), make([]byte, 16))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestAttachRefusesDoubleAttach(t *testing.T) {
	tr := New(0)
	tr.attached = true
	err := tr.Attach()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already attached")
}
