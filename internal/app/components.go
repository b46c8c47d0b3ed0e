package app

import "go.kiln.dev/kiln/internal/core/ports"

// Components bundles the App facade with the pieces cmd/kiln needs before an App
// even exists, such as a Logger to report wiring failures to. Kept deliberately thin:
// anything a run itself needs belongs on App, not here.
type Components struct {
	App    *App
	Logger ports.Logger
}
