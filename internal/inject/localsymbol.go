/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package inject

import (
	"os"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"

	"github.com/go-ptrace/procenv/internal/constant"
	"github.com/go-ptrace/procenv/internal/mapping"
)

// libcSoname is passed to dlopen to bring libc into this process's own
// address space. A statically linked Go binary otherwise has no libc
// mapped at all, which would leave nothing for symbol.Resolve to
// anchor on.
const libcSoname = "libc.so.6"

// localGetenv loads libc into the calling process (idempotently: the
// dynamic linker reference-counts an already-loaded library) and
// returns both the address getenv resolved to here and the load base
// of the mapping it lives in, mirroring exactly the pair FindLibrary
// will later report for the same library in the target.
func localGetenv() (base, addr uintptr, err error) {
	handle, err := purego.Dlopen(libcSoname, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, 0, errors.Wrap(err, "dlopen libc")
	}

	sym, err := purego.Dlsym(handle, "getenv")
	if err != nil {
		return 0, 0, errors.Wrap(err, "dlsym getenv")
	}

	base, err = mapping.FindLibrary(os.Getpid(), constant.LibcNeedle)
	if err != nil {
		return 0, 0, errors.Wrap(err, "locate own libc mapping")
	}

	return base, sym, nil
}
