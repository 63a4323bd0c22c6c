// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for classmark.
//
// TOML is the primary format; JSON is read as a fallback and LoadFromPath
// also accepts YAML. Missing values are filled from Default and the result
// is checked by Validate.
//
// # Configuration Precedence
//
//   - Environment variables (CLASSMARK_*)
//   - ~/.classmark/config.toml
//   - ~/.classmark/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	store := docprops.NewStore(cfg.Document.PropertyName, logger)
package config
