/*
 * Copyright (c) 2026. Procenv Developers. All rights reserved.
 *
 * SPDX-License-Identifier: Apache-2.0
 */

package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// SetUp configures the package-global logrus logger for a single-shot
// run of procenv. Unlike a long-running daemon, a one-shot injector has
// no log file to rotate, so output always goes to stderr; stdout is
// reserved for the looked-up value.
func SetUp(logLevel string) error {
	lvl, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(lvl)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		PadLevelText:  true,
		FullTimestamp: true,
	})
	return nil
}
