// internal/docker/types.go
package docker

import (
	"strings"

	"raytag/internal/executil"
	"raytag/internal/runtime"
)

// ImageSpec names the image being built. All fields are free-form.
type ImageSpec struct {
	PythonVersion string // e.g. "py38"
	Platform      string // e.g. "cpu", "cu118"
	ImageType     string // e.g. "ray", "ray-ml"
}

// Image types with platform aliases.
const (
	ImageTypeRay   = "ray"
	ImageTypeRayML = "ray-ml"
)

// BuildOptions is everything the build executor needs for one image.
type BuildOptions struct {
	Script       string // build script path, relative to Dir
	Wheel        string // ray wheel filename
	BaseImage    string // base image ref the script builds FROM
	Requirements string // compiled requirements filename
	Published    string // <registry>/<image_type>:<canonical tag>

	Tags []string // full ordered tag list, Tags[0] is canonical
	Refs []string // <registry>/<image_type>:<tag> for every tag

	Env map[string]string // extra environment for the script, see BuildEnv

	Dir    string // working directory for the script (the RayCI checkout)
	DryRun bool   // print only
}

// Variables exported to the build script on top of the process environment.
const (
	EnvScriptCanonicalTag = "RAYTAG_CANONICAL_TAG"
	EnvScriptImageRefs    = "RAYTAG_IMAGE_REFS"
)

// BuildEnv is the script environment for a plan: the build id plus the
// canonical tag and every ref (space separated) the script should push.
func BuildEnv(buildID string, plan Plan) map[string]string {
	return map[string]string{
		runtime.EnvBuildID:    buildID,
		EnvScriptCanonicalTag: plan.Canonical,
		EnvScriptImageRefs:    strings.Join(plan.Refs, " "),
	}
}

// Args returns the build script invocation as argv.
func (o *BuildOptions) Args() []string {
	return []string{o.Script, o.Wheel, o.BaseImage, o.Requirements, o.Published}
}

// Command returns the invocation as a single shell command line.
func (o *BuildOptions) Command() string {
	return executil.Quote(o.Args())
}
