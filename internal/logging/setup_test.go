/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestSetUp(t *testing.T) {
	err := SetUp("debug")
	assert.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	err = SetUp("not-a-level")
	assert.Error(t, err)
}
