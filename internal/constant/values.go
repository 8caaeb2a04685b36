/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// constants shared across the injection engine

package constant

const (
	// WordSize is the native word size on amd64; every text read/write
	// the engine issues must be a multiple of this.
	WordSize = 8

	// PageSize is the size of the scratch mapping acquired in the
	// target via remote mmap.
	PageSize = 4096

	// TrampolineMinBlock is the minimum size of the trampoline block
	// written into the scratch page: a 5-byte CALL plus a 1-byte TRAP.
	TrampolineMinBlock = 6

	// DefaultLogLevel is the logrus level used when -v is not given.
	DefaultLogLevel = "info"

	// LibcNeedle is the substring find_library looks for in
	// /proc/<pid>/maps to locate the C library.
	LibcNeedle = "/libc"

	// YamaPtraceScopePath is the kernel pseudo-file read by the
	// preconditions checker.
	YamaPtraceScopePath = "/proc/sys/kernel/yama/ptrace_scope"
)
