// Package buildinfo holds values stamped in at link time.
package buildinfo

// Version is overridden with -ldflags "-X github.com/silver2dream/glyphkit/internal/buildinfo.Version=v1.2.3".
var Version = "dev"
