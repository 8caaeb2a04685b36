/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package inject

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// interrupted is set by RequestInterrupt, normally called from a
// signal handler goroutine. ptrace requests must all come from the
// thread that performed the attach, so a signal handler cannot safely
// drive the unwind itself; it can only ask the session, at its next
// checkpoint between ptrace calls, to abandon the lookup and run its
// own unwind on its own thread.
var interrupted int32

// RequestInterrupt asks any Session currently running to stop at its
// next checkpoint and unwind. Safe to call from any goroutine.
func RequestInterrupt() {
	atomic.StoreInt32(&interrupted, 1)
}

func clearInterrupt() {
	atomic.StoreInt32(&interrupted, 0)
}

func checkInterrupted() error {
	if atomic.LoadInt32(&interrupted) != 0 {
		return errors.New("interrupted")
	}
	return nil
}
