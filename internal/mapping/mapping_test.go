/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package mapping

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-ptrace/procenv/pkg/errdefs"
)

func TestMatchLineFindsLibc(t *testing.T) {
	for _, line := range []string{
		"7f21a0000000-7f21a0025000 r--p 00000000 fd:01 5678 /usr/lib/x86_64-linux-gnu/libc.so.6",
	} {
		_, ok := matchLine(line, "/libc")
		assert.False(t, ok, "r--p is not executable, should not match: %s", line)
	}

	addr, ok := matchLine(
		"7f21a0025000-7f21a01a0000 r-xp 00025000 fd:01 5678 /usr/lib/x86_64-linux-gnu/libc.so.6",
		"/libc",
	)
	assert.True(t, ok)
	assert.Equal(t, uintptr(0x7f21a0025000), addr)
}

func TestMatchLineRejectsLowercaseSuffix(t *testing.T) {
	_, ok := matchLine(
		"7f21a0300000-7f21a0320000 r-xp 00000000 fd:01 9012 /usr/lib/x86_64-linux-gnu/libcoolthing.so",
		"/libc",
	)
	assert.False(t, ok, "/libcoolthing.so must not match /libc")
}

func TestMatchLineRejectsSharedMapping(t *testing.T) {
	_, ok := matchLine(
		"7f21a0025000-7f21a01a0000 r-xs 00025000 fd:01 5678 /usr/lib/x86_64-linux-gnu/libc.so.6",
		"/libc",
	)
	assert.False(t, ok, "shared mappings must not match")
}

func TestMatchLineRejectsWritableMapping(t *testing.T) {
	_, ok := matchLine(
		"7f21a0025000-7f21a01a0000 rwxp 00025000 fd:01 5678 /usr/lib/x86_64-linux-gnu/libc.so.6",
		"/libc",
	)
	assert.False(t, ok, "writable+executable mappings must not match")
}

// FindLibrary itself opens /proc/<pid>/maps, which can't be redirected
// to a temp file; matchLine carries the parsing logic under test here,
// and the live /proc/self/maps in TestFindLibrarySelf below confirms
// FindLibrary's wiring against the real kernel file.
func TestFindLibrarySelf(t *testing.T) {
	addr, err := FindLibrary(os.Getpid(), "/libc")
	if err != nil {
		if errdefs.IsMapNotFound(err) {
			t.Skip("no libc mapped in this process (e.g. statically linked test binary)")
		}
		t.Fatalf("unexpected error: %v", err)
	}
	assert.NotZero(t, addr)
}

func TestFindLibraryNotFound(t *testing.T) {
	_, err := FindLibrary(os.Getpid(), "/this-library-does-not-exist.so")
	assert.Error(t, err)
	assert.True(t, errdefs.IsMapNotFound(err))
}
