/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package precheck diagnoses kernel ptrace policy when an attach is
// refused, reading the Yama ptrace_scope knob the way the corpus's own
// documentation of it (nestybox/sysbox-fs's ptrace_scope handler)
// describes the four possible values.
package precheck

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-ptrace/procenv/internal/constant"
)

// unrestricted is the ptrace_scope value ("classic ptrace
// permissions") under which PTRACE_ATTACH to any same-uid process is
// allowed.
const unrestricted = "0"

// scopePath is a var, not a const, so tests can point it at a fixture
// file instead of the real kernel pseudo-file.
var scopePath = constant.YamaPtraceScopePath

// Diagnose reads the kernel's ptrace_scope configuration file and, if
// its value is not "unrestricted", returns a human-readable message
// naming the observed value and the command to relax it. Returns an
// empty string if the file reads as unrestricted or cannot be read at
// all (e.g. a kernel built without Yama); this check is purely
// diagnostic and is never itself fatal.
func Diagnose() string {
	data, err := os.ReadFile(scopePath)
	if err != nil {
		return ""
	}

	scope := strings.TrimSpace(string(data))
	if scope == unrestricted {
		return ""
	}

	return fmt.Sprintf(
		"kernel.yama.ptrace_scope is %s; the likely cause of the attach failure. "+
			"Run: sudo sysctl kernel.yama.ptrace_scope=0",
		scope,
	)
}
