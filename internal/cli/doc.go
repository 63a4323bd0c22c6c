// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and execution for classmark.
//
// Each document command builds an App, which wires the configured
// classification store, the watermark painter and the lifecycle controller,
// then delivers the same events an editor would.
//
// # Usage
//
//	cmd, args := cli.Parse(os.Args[1:])
//	os.Exit(cli.Run(cmd, args))
//
// # Commands
//
//   - open: report a file's classification
//   - label: run a file through the save gate
//   - show: list stored watermarks, optionally drawn as a preview
//   - levels: list the classification levels
//   - list: list documents in the sidecar database
//   - shell: interactive multi-document session
//   - config: show, initialize and edit the configuration file
//
// All commands support --json, which wraps the result in JSONResponse.
package cli
