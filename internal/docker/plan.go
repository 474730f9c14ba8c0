// internal/docker/plan.go
//
// The planner turns CI signals + an ImageSpec into the ordered tag list an
// image is published under.
//
// Tag format: <version>-<python><platform suffix>
//
//   - version   → from version.DeriveTags (sha, nightly, release.sha, release.date)
//   - suffix    → "-<platform>" first, then aliases:
//                 cpu + ray        → ""            (untagged means cpu)
//                 gpu + ray-ml     → "-gpu", ""    (untagged means gpu)
//                 gpu              → "-gpu"
//
// Tags are the cartesian product version × suffix, version-major. Tags[0]
// pairs the primary version with the literal platform and is canonical.

package docker

import (
	"fmt"

	"raytag/internal/config"
	"raytag/internal/version"
)

// DefaultGPUPlatform is the accelerator platform also published as "gpu".
const DefaultGPUPlatform = "cu118"

const gpuSuffix = "-gpu"

// aliasRule adds suffixes when match holds. Rules are tried in order and
// the first match wins.
type aliasRule struct {
	match    func(platform, imageType string) bool
	suffixes []string
}

// Tagger derives image tags. The zero value uses DefaultGPUPlatform.
type Tagger struct {
	GPUPlatform string
}

func NewTagger(gpuPlatform string) Tagger {
	return Tagger{GPUPlatform: gpuPlatform}
}

func (t Tagger) gpu() string {
	if t.GPUPlatform == "" {
		return DefaultGPUPlatform
	}
	return t.GPUPlatform
}

func (t Tagger) rules() []aliasRule {
	gpu := t.gpu()
	return []aliasRule{
		{
			match: func(p, it string) bool {
				return p == config.CPUPlatform && it == ImageTypeRay
			},
			suffixes: []string{""},
		},
		{
			match: func(p, it string) bool {
				return p == gpu && it == ImageTypeRayML
			},
			suffixes: []string{gpuSuffix, ""},
		},
		{
			match:    func(p, _ string) bool { return p == gpu },
			suffixes: []string{gpuSuffix},
		},
	}
}

// PlatformSuffixes returns the literal platform suffix followed by its aliases.
func (t Tagger) PlatformSuffixes(platform, imageType string) []string {
	out := []string{"-" + platform}
	for _, r := range t.rules() {
		if r.match(platform, imageType) {
			out = append(out, r.suffixes...)
			break
		}
	}
	return out
}

// Tags returns every tag for spec, canonical first. Duplicates are kept.
func (t Tagger) Tags(signals version.Signals, spec ImageSpec) []string {
	versions := version.DeriveTags(signals)
	suffixes := t.PlatformSuffixes(spec.Platform, spec.ImageType)

	tags := make([]string, 0, len(versions)*len(suffixes))
	for _, v := range versions {
		for _, s := range suffixes {
			tags = append(tags, fmt.Sprintf("%s-%s%s", v, spec.PythonVersion, s))
		}
	}
	return tags
}

// DerivePlatformSuffixes uses DefaultGPUPlatform.
func DerivePlatformSuffixes(platform, imageType string) []string {
	return Tagger{}.PlatformSuffixes(platform, imageType)
}

// BuildTags uses DefaultGPUPlatform.
func BuildTags(signals version.Signals, spec ImageSpec) []string {
	return Tagger{}.Tags(signals, spec)
}

// CanonicalTag returns the first tag, or "" for an empty list.
func CanonicalTag(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return tags[0]
}

// Plan is the output of the planner.
type Plan struct {
	Tags      []string // ordered, Tags[0] canonical
	Refs      []string // fully-qualified repo:tag, same order as Tags
	Canonical string
	Published string // ref of the canonical tag
}

// PlanTags computes tags and image refs for spec under registry. Only missing
// or invalid signals and an incomplete spec are errors; refs are validated by
// the build path.
func PlanTags(t Tagger, signals version.Signals, spec ImageSpec, registry string) (Plan, error) {
	if err := spec.Validate(); err != nil {
		return Plan{}, err
	}
	if err := signals.Validate(); err != nil {
		return Plan{}, err
	}

	tags := t.Tags(signals, spec)
	refs, err := ImageNames(registry, spec.ImageType, tags)
	if err != nil {
		return Plan{}, err
	}
	return Plan{
		Tags:      tags,
		Refs:      refs,
		Canonical: CanonicalTag(tags),
		Published: refs[0],
	}, nil
}
