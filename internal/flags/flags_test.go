/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestNewFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	flags := NewFlags(cmd)

	err := cmd.Flags().Parse([]string{"--pid", "1234", "--env", "PATH", "--log-level", "debug"})
	assert.NoError(t, err)
	assert.Equal(t, 1234, flags.Args.PID)
	assert.Equal(t, "PATH", flags.Args.EnvName)
	assert.Equal(t, "debug", flags.Args.LogLevel)
	assert.False(t, flags.Args.DiagnoseOnly)
}
