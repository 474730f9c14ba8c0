package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"raytag/internal/docker"
)

// TagsCmd represents 'raytag tags'.
type TagsCmd struct {
	ImageFlags `embed:""`
	Output string `short:"o" enum:"text,yaml,json" default:"text" help:"Output format (text, yaml, json)."`
	Names  bool   `help:"Print full image names (<registry>/<image-type>:<tag>) instead of bare tags."`
}

type tagsReport struct {
	Canonical string   `yaml:"canonical" json:"canonical"`
	Published string   `yaml:"published" json:"published"`
	Tags      []string `yaml:"tags" json:"tags"`
	Images    []string `yaml:"images" json:"images"`
}

func (c *TagsCmd) Run(env *Env) error {
	rc, err := env.LoadContext()
	if err != nil {
		return err
	}
	cfg, err := env.LoadConfig()
	if err != nil {
		return err
	}

	spec := c.spec()
	if !cfg.KnownPlatform(spec.Platform) {
		log.WithField("platform", spec.Platform).Warn("platform is not listed in config; tagging it anyway")
	}
	plan, err := docker.PlanTags(docker.NewTagger(cfg.GPUPlatform), rc.Signals, spec, cfg.Registry)
	if err != nil {
		return err
	}
	if err := docker.ValidateRefs(plan.Refs); err != nil {
		log.WithError(err).Warn("tags are not valid image refs; build will reject them")
	}
	log.WithFields(log.Fields{
		"channel":   rc.Channel(),
		"canonical": plan.Canonical,
	}).Debug("planned tags")

	report := tagsReport{
		Canonical: plan.Canonical,
		Published: plan.Published,
		Tags:      plan.Tags,
		Images:    plan.Refs,
	}

	switch c.Output {
	case "yaml":
		enc := yaml.NewEncoder(env.Out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(env.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		lines := plan.Tags
		if c.Names {
			lines = plan.Refs
		}
		_, err := fmt.Fprintln(env.Out, strings.Join(lines, "\n"))
		return err
	}
}
