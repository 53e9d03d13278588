package minddump

import (
	_ "embed"
)

// Version is the release version of the module, embedded from VERSION.
//
//go:embed VERSION
var Version string
