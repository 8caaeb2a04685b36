/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package inject

import (
	"github.com/pkg/errors"

	"github.com/go-ptrace/procenv/pkg/errdefs"
)

// unwind walks the session back down through whatever states run
// managed to reach, undoing each one, and always attempts a Detach if
// the attach itself succeeded. It is called unconditionally, on both
// the success and failure paths of run, and is itself best-effort:
// it keeps going after a step fails so later steps that don't depend
// on it still get a chance, and reports the first error it hit.
func (s *Session) unwind() error {
	var firstErr error
	note := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if s.state >= stateCallDone {
		if err := s.returnToBaseline(); err != nil {
			note(errors.Wrap(err, "return target to baseline instruction pointer"))
		} else {
			s.state = stateBackAtBaseline
		}
	}

	if s.state >= stateMmapDone {
		if err := s.releaseScratchPage(); err != nil {
			note(errors.Wrap(err, "release scratch page"))
		} else {
			s.state = stateUnmapped
		}
	}

	if s.state >= stateBaselineCaptured {
		if err := s.restoreBaselineText(); err != nil {
			note(errors.Wrap(err, "restore baseline text"))
		}
		if err := s.tracee.SetRegs(&s.baseline); err != nil {
			note(errors.Wrap(err, "restore baseline registers"))
		} else {
			s.state = stateRestored
		}
	}

	if s.state >= stateAttached {
		if err := s.tracee.Detach(); err != nil {
			note(errors.Wrap(err, "detach"))
		} else {
			s.state = stateDetached
		}
	}

	return firstErr
}

// returnToBaseline points the target back at its original instruction
// pointer via the same indirect-jump trick acquireScratch used to land
// on the scratch page in the first place, then single-steps through
// it. The target's RIP is currently just past the trampoline's
// breakpoint after remoteLookup's call completed, and the jump is
// written there.
func (s *Session) returnToBaseline() error {
	regs, err := s.tracee.GetRegs()
	if err != nil {
		return err
	}

	regs.Rax = uint64(s.baseline.Rip)
	if err := s.tracee.SetRegs(regs); err != nil {
		return err
	}

	jumpBack := [8]byte{0xff, 0xe0, 0, 0, 0, 0, 0, 0} // JMP *rax
	if err := s.tracee.PokeText(uintptr(regs.Rip), jumpBack[:], nil); err != nil {
		return err
	}
	if err := s.tracee.SingleStep(); err != nil {
		return err
	}

	landed, err := s.tracee.GetRegs()
	if err != nil {
		return err
	}
	if uintptr(landed.Rip) != uintptr(s.baseline.Rip) {
		return errors.Wrapf(errdefs.ErrProtocolMismatch, "landed at %#x, expected baseline %#x", landed.Rip, s.baseline.Rip)
	}
	return nil
}

// releaseScratchPage re-installs scratchPrelude at the baseline site
// and drives the remote munmap through its SYSCALL instruction.
func (s *Session) releaseScratchPage() error {
	if err := s.tracee.PokeText(uintptr(s.baseline.Rip), scratchPrelude[:], nil); err != nil {
		return err
	}
	return releaseScratch(s.tracee, &s.baseline, s.scratchPage)
}

// restoreBaselineText writes back the 8 bytes acquireScratch
// overwrote at the baseline instruction pointer. Safe to call even if
// remoteLookup already restored them once; the bytes are identical.
// Does nothing if acquireScratch never saved them, since the baseline
// text was then never overwritten.
func (s *Session) restoreBaselineText() error {
	if s.baselineText == ([8]byte{}) {
		return nil
	}
	return s.tracee.PokeText(uintptr(s.baseline.Rip), s.baselineText[:], nil)
}
