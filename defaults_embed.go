package glyphkit

import _ "embed"

// DefaultConfig is the glyphkit.yaml written by `glyphkit init` and used
// when no configuration file is found.
//
//go:embed defaults/glyphkit.yaml
var DefaultConfig []byte
