/*
NAME
  version.go

DESCRIPTION
  version.go implements get_version_info / get_api_version (spec §6).

AUTHORS
  Mara Delacroix <mara@kestrel-imaging.dev>
*/

package api

import "github.com/kestrel-imaging/zimg/pixel"

const (
	versionMajor = 1
	versionMinor = 0
	versionPatch = 0
)

// GetVersionInfo returns the engine's semantic version.
func GetVersionInfo() (major, minor, patch int) {
	return versionMajor, versionMinor, versionPatch
}

// GetAPIVersion returns the integer runtime API contract version this
// build implements.
func GetAPIVersion() int { return pixel.APIVersion }
