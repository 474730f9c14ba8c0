package cli

import (
	"fmt"
	"runtime"
	"strings"
)

// Set via -ldflags "-X raytag/internal/cli.version=..." in release builds.
var (
	version   = ""
	gitCommit = ""
)

// VersionString returns "<version> <commit> [<arch>]", or "(local)" for
// builds without linker flags.
func VersionString() string {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	c := strings.TrimSpace(gitCommit)
	if v == "" || c == "" {
		return "(local)"
	}
	return fmt.Sprintf("%s %s [%s]", v, c, runtime.GOARCH)
}

// VersionCmd represents 'raytag version'.
type VersionCmd struct{}

func (c *VersionCmd) Run(env *Env) error {
	_, err := fmt.Fprintln(env.Out, VersionString())
	return err
}
