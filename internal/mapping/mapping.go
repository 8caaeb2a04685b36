/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package mapping locates a loaded shared library inside a process by
// parsing the kernel-exposed /proc/<pid>/maps pseudo-file, the same
// way the corpus's own shared-library watchers do.
package mapping

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/go-ptrace/procenv/pkg/errdefs"
)

// FindLibrary returns the load address of the first mapping in pid's
// memory map whose permissions are exactly "r-xp" (readable,
// executable, not writable, private) and
// whose path contains needle as a substring, rejecting a match whose
// next character is a lowercase letter (so "/libc" does not match
// "/libcoolthing.so"). Returns errdefs.ErrMapNotFound if no line
// matches.
func FindLibrary(pid int, needle string) (uintptr, error) {
	path := fmt.Sprintf("/proc/%d/maps", pid)
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if addr, ok := matchLine(scanner.Text(), needle); ok {
			return addr, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.Wrapf(err, "scan %s", path)
	}
	return 0, errors.Wrapf(errdefs.ErrMapNotFound, "%q not mapped in pid %d", needle, pid)
}

// matchLine parses one line of /proc/<pid>/maps of the form
// "start-end perms offset dev inode path" and reports whether it is an
// "r-xp" (readable, executable, not writable, private) mapping whose
// path contains needle
// at a position not immediately followed by a lowercase letter.
func matchLine(line, needle string) (uintptr, bool) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return 0, false
	}

	perms := fields[1]
	if len(perms) < 4 || perms[0] != 'r' || perms[1] != '-' || perms[2] != 'x' || perms[3] != 'p' {
		return 0, false
	}

	libPath := strings.Join(fields[5:], " ")
	idx := strings.Index(libPath, needle)
	if idx < 0 {
		return 0, false
	}
	if after := idx + len(needle); after < len(libPath) {
		c := libPath[after]
		if c >= 'a' && c <= 'z' {
			return 0, false
		}
	}

	start, _, ok := strings.Cut(fields[0], "-")
	if !ok {
		return 0, false
	}
	val, err := strconv.ParseUint(start, 16, 64)
	if err != nil {
		return 0, false
	}
	return uintptr(val), true
}
