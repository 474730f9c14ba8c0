package assets

import (
	"embed"
)

//go:embed defaults.yaml
var defaultsFS embed.FS

// DefaultConfig returns the embedded defaults.yaml.
func DefaultConfig() []byte {
	data, err := defaultsFS.ReadFile("defaults.yaml")
	if err != nil {
		// the file is compiled in; this only trips if the embed pattern is broken
		panic("assets: defaults.yaml missing from embed: " + err.Error())
	}
	return data
}
