/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterruptCheckpoint(t *testing.T) {
	clearInterrupt()
	assert.NoError(t, checkInterrupted())

	RequestInterrupt()
	assert.Error(t, checkInterrupted())

	clearInterrupt()
	assert.NoError(t, checkInterrupted())
}
