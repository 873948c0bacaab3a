// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package config provides loading and typed accessors for hellocdk's user
// configuration. The configuration is a YAML document, located by
// HELLOCDK_CFG_FILE or in the user's configuration directory, typically:
//   - Linux: $XDG_CONFIG_HOME/hellocdk.yaml or $HOME/.config/hellocdk.yaml
//   - macOS: $HOME/Library/Application Support/hellocdk.yaml
//   - Windows: %APPDATA%/hellocdk.yaml
//
// Keys are dotted paths. Commands namespace their keys by command name, so
// "verify.region" is preferred over "region" while the verify command runs.
package config
