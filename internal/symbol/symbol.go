/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

// Package symbol computes the address of a shared-library symbol in a
// target process from its address in the calling process, under the
// assumption that both processes have mapped an identical library
// image (only the ASLR-chosen base address differs between them).
package symbol

// Resolve returns targetBase + (selfSymbol - selfBase): the address
// symbol selfSymbol (known in the calling process, which has the
// library mapped at selfBase) would have in a process where the same
// library is mapped at targetBase.
//
// There is no error path. Validity depends entirely on the invariant
// that both processes have mapped bit-identical library images; a
// mismatched build or version silently produces the wrong address.
// The engine does not check the resolved address before the injected
// call jumps to it.
func Resolve(targetBase, selfBase, selfSymbol uintptr) uintptr {
	return targetBase + (selfSymbol - selfBase)
}
