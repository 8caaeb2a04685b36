/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package precheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withScopeFile(t *testing.T, content string) {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "ptrace_scope")
	if content != "" {
		assert.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	orig := scopePath
	scopePath = p
	t.Cleanup(func() { scopePath = orig })
}

func TestDiagnoseUnrestricted(t *testing.T) {
	withScopeFile(t, "0\n")
	assert.Empty(t, Diagnose())
}

func TestDiagnoseRestricted(t *testing.T) {
	withScopeFile(t, "1\n")
	msg := Diagnose()
	assert.Contains(t, msg, "ptrace_scope is 1")
	assert.Contains(t, msg, "sysctl kernel.yama.ptrace_scope=0")
}

func TestDiagnoseMissingFile(t *testing.T) {
	dir := t.TempDir()
	orig := scopePath
	scopePath = filepath.Join(dir, "does-not-exist")
	t.Cleanup(func() { scopePath = orig })

	assert.Empty(t, Diagnose())
}
