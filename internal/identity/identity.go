// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity resolves the display name recorded in the last-editor
// watermark.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"strings"
)

// ErrNoIdentity is returned when a source has no usable name.
var ErrNoIdentity = errors.New("no identity available")

// Unknown is recorded when every source fails.
const Unknown = "Unknown"

// Source yields the current user's display name.
type Source interface {
	DisplayName(ctx context.Context) (string, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (string, error)

// DisplayName implements Source.
func (f SourceFunc) DisplayName(ctx context.Context) (string, error) {
	return f(ctx)
}

// Static always returns the same name. A blank name is treated as absent.
type Static string

// DisplayName implements Source.
func (s Static) DisplayName(context.Context) (string, error) {
	if n := strings.TrimSpace(string(s)); n != "" {
		return n, nil
	}
	return "", ErrNoIdentity
}

// =============================================================================
// OS SOURCES
// =============================================================================

var lookupCurrent = user.Current

// OSDisplayName returns the account's full name (GECOS / Windows display name).
func OSDisplayName() Source {
	return SourceFunc(func(context.Context) (string, error) {
		u, err := lookupCurrent()
		if err != nil {
			return "", fmt.Errorf("lookup current user: %w", err)
		}
		// GECOS may carry ",room,phone" suffixes.
		name, _, _ := strings.Cut(u.Name, ",")
		if name = strings.TrimSpace(name); name == "" {
			return "", ErrNoIdentity
		}
		return name, nil
	})
}

// OSAccountName returns the login name without any domain qualifier.
func OSAccountName() Source {
	return SourceFunc(func(context.Context) (string, error) {
		u, err := lookupCurrent()
		if err != nil {
			return "", fmt.Errorf("lookup current user: %w", err)
		}
		name := u.Username
		if i := strings.LastIndexByte(name, '\\'); i >= 0 {
			name = name[i+1:]
		}
		if name = strings.TrimSpace(name); name == "" {
			return "", ErrNoIdentity
		}
		return name, nil
	})
}

// Env reads the first non-empty variable of names.
func Env(names ...string) Source {
	return SourceFunc(func(context.Context) (string, error) {
		for _, n := range names {
			if v := strings.TrimSpace(os.Getenv(n)); v != "" {
				return v, nil
			}
		}
		return "", ErrNoIdentity
	})
}

// =============================================================================
// CHAIN
// =============================================================================

// Chain tries each source in order and returns the first non-blank name.
type Chain struct {
	sources []Source
	logger  *slog.Logger
}

// NewChain builds the standard chain: the configured override, then the
// OS display name, the account name, and finally USER / USERNAME.
func NewChain(override string) *Chain {
	return Of(Static(override), OSDisplayName(), OSAccountName(), Env("USER", "USERNAME"))
}

// Of builds a chain from explicit sources.
func Of(sources ...Source) *Chain {
	return &Chain{
		sources: sources,
		logger:  slog.Default().With("component", "identity"),
	}
}

// WithLogger sets the logger used for fallback diagnostics.
func (c *Chain) WithLogger(l *slog.Logger) *Chain {
	if l != nil {
		c.logger = l
	}
	return c
}

// DisplayName implements Source. It fails only if every source fails.
func (c *Chain) DisplayName(ctx context.Context) (string, error) {
	var errs []error
	for i, s := range c.sources {
		name, err := s.DisplayName(ctx)
		if err == nil {
			if name = strings.TrimSpace(name); name != "" {
				return name, nil
			}
			err = ErrNoIdentity
		}
		c.logger.Debug("identity source unavailable", "source", i, "error", err)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", ErrNoIdentity
	}
	return "", fmt.Errorf("resolve identity: %w", errors.Join(errs...))
}

// Resolve returns src's name, or Unknown when it has none.
func Resolve(ctx context.Context, src Source) string {
	if src == nil {
		return Unknown
	}
	name, err := src.DisplayName(ctx)
	if err != nil || strings.TrimSpace(name) == "" {
		return Unknown
	}
	return strings.TrimSpace(name)
}
