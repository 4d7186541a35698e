// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "context"

// Loader is the interface for a format-specific session loader.
type Loader interface {
	// Load reads every session file under the given paths and merges them
	// into a single Model, in file order.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
