/*
Copyright (C) 2026 Planning Inspectorate

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version provides build version information.
package version

// Version is the current version of the programming service.
// This is set at build time via ldflags:
//
//	-X github.com/Planning-Inspectorate/inspector-programming-sub000/internal/version.Version=X.Y.Z
var Version = "0.3.0"
