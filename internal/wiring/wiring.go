// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.kiln.dev/kiln/internal/adapters/cas"
	_ "go.kiln.dev/kiln/internal/adapters/config"
	_ "go.kiln.dev/kiln/internal/adapters/fs"
	_ "go.kiln.dev/kiln/internal/adapters/logger"
	_ "go.kiln.dev/kiln/internal/adapters/moduledisc"
	_ "go.kiln.dev/kiln/internal/adapters/telemetry"
	_ "go.kiln.dev/kiln/internal/adapters/telemetry/progrock"
	_ "go.kiln.dev/kiln/internal/adapters/valueformat"
	// Register engine nodes.
	_ "go.kiln.dev/kiln/internal/engine/hashing"
	// Register app nodes.
	_ "go.kiln.dev/kiln/internal/app"
)
