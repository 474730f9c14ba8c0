// internal/docker/options.go
//
// This layer adapts a runtime.Context + ImageSpec into concrete BuildOptions
// for the build executor: plan the tags, render the build input names, and
// pin the working directory to the RayCI checkout.

package docker

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"raytag/internal/config"
	"raytag/internal/runtime"
)

// BuildOptionsFromContext produces a fully-populated BuildOptions.
//
// Steps:
//   - validate the checkout precondition and the image spec
//   - run PlanTags for the ordered tag list and image refs, which must be pushable
//   - render wheel, base image and requirements names
func BuildOptionsFromContext(c *runtime.Context, spec ImageSpec, cfg *config.Config) (*BuildOptions, error) {
	if c == nil {
		return nil, fmt.Errorf("nil CI context")
	}
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if err := c.RequireCheckoutDir(); err != nil {
		return nil, err
	}
	if _, _, err := pythonDigits(spec.PythonVersion); err != nil {
		return nil, err
	}
	if !cfg.KnownPlatform(spec.Platform) {
		log.WithField("platform", spec.Platform).Warn("platform is not listed in config; tagging it anyway")
	}

	plan, err := PlanTags(NewTagger(cfg.GPUPlatform), c.Signals, spec, cfg.Registry)
	if err != nil {
		return nil, err
	}
	if err := ValidateRefs(plan.Refs); err != nil {
		return nil, err
	}

	namer, err := NewNamer(cfg.Templates)
	if err != nil {
		return nil, err
	}
	data := NameData{
		ImageSpec:    spec,
		RayVersion:   cfg.RayVersion,
		BaseRegistry: strings.TrimRight(cfg.BaseRegistry, "/"),
		BuildID:      c.BuildID,
	}
	if data.BuildID == "" {
		log.Warnf("%s is not set; base image ref will have an empty build id", runtime.EnvBuildID)
	}

	wheel, err := namer.Wheel(data)
	if err != nil {
		return nil, err
	}
	base, err := namer.BaseImage(data)
	if err != nil {
		return nil, err
	}
	reqs, err := namer.Requirements(data)
	if err != nil {
		return nil, err
	}

	return &BuildOptions{
		Script:       cfg.BuildScript,
		Wheel:        wheel,
		BaseImage:    base,
		Requirements: reqs,
		Published:    plan.Published,
		Tags:         plan.Tags,
		Refs:         plan.Refs,
		Env:          BuildEnv(c.BuildID, plan),
		Dir:          c.CheckoutDir,
	}, nil
}
