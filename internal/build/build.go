// Copyright (C) 2024 The Dagu Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package build holds version metadata injected at link time via
// -ldflags, surfaced by the CLI's --version flag.
package build

import "strings"

var (
	// Version is overridden at build time, e.g.:
	//   go build -ldflags "-X github.com/aurora-build/aurora/internal/build.Version=1.2.3"
	Version = "dev"
	AppName = "Aurora"
	Slug    = ""
)

func init() {
	if Slug == "" {
		Slug = strings.ToLower(AppName)
	}
}
