/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package main

import "github.com/go-ptrace/procenv/version"

// Version is surfaced through cobra's built-in --version flag.
var Version = version.Version
