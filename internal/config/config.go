// Package config loads raytag's naming configuration: the registries images
// are published to, the build script, and the templates used to name the
// build inputs. Values are layered embedded defaults < YAML file < RAYTAG_*
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"raytag/internal/assets"
)

// Environment overrides.
const (
	EnvRegistry     = "RAYTAG_REGISTRY"
	EnvBaseRegistry = "RAYTAG_BASE_REGISTRY"
	EnvBuildScript  = "RAYTAG_BUILD_SCRIPT"
	EnvRayVersion   = "RAYTAG_RAY_VERSION"
	EnvGPUPlatform  = "RAYTAG_GPU_PLATFORM"
)

// CPUPlatform is the platform name for CPU-only images.
const CPUPlatform = "cpu"

var ErrInvalidConfig = errors.New("invalid config")

// Templates are text/template sources (with sprig functions) for the
// build inputs handed to the build script.
type Templates struct {
	Wheel        string `yaml:"wheel"`
	BaseImage    string `yaml:"base_image"`
	Requirements string `yaml:"requirements"`
}

type Config struct {
	Registry     string    `yaml:"registry"`
	BaseRegistry string    `yaml:"base_registry"`
	BuildScript  string    `yaml:"build_script"`
	RayVersion   string    `yaml:"ray_version"`
	GPUPlatform  string    `yaml:"gpu_platform"`
	Platforms    []string  `yaml:"platforms"`
	Templates    Templates `yaml:"templates"`
}

// Default returns the embedded configuration.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := decode(assets.DefaultConfig(), cfg); err != nil {
		return nil, fmt.Errorf("embedded defaults: %w", err)
	}
	return cfg, nil
}

// Load reads the defaults, merges the YAML file at path (if any), applies
// environment overrides and validates the result.
func Load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		// decoding into the populated struct keeps defaults for absent keys
		if err := decode(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	cfg.ApplyEnv(lookup)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// ApplyEnv overlays RAYTAG_* variables onto the config. Empty values are ignored.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}
	set := func(dst *string, key string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	set(&c.Registry, EnvRegistry)
	set(&c.BaseRegistry, EnvBaseRegistry)
	set(&c.BuildScript, EnvBuildScript)
	set(&c.RayVersion, EnvRayVersion)
	set(&c.GPUPlatform, EnvGPUPlatform)
}

// Validate rejects configs that cannot name an image.
func (c *Config) Validate() error {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"registry", c.Registry},
		{"base_registry", c.BaseRegistry},
		{"build_script", c.BuildScript},
		{"ray_version", c.RayVersion},
		{"gpu_platform", c.GPUPlatform},
		{"templates.wheel", c.Templates.Wheel},
		{"templates.base_image", c.Templates.BaseImage},
		{"templates.requirements", c.Templates.Requirements},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidConfig, strings.Join(missing, ", "))
	}
	// the cpu alias and the gpu alias are mutually exclusive
	if c.GPUPlatform == CPUPlatform {
		return fmt.Errorf("%w: gpu_platform cannot be %q", ErrInvalidConfig, CPUPlatform)
	}
	return nil
}

// KnownPlatform reports whether platform is listed in the config. Unknown
// platforms are still tagged; callers use this only to warn.
func (c *Config) KnownPlatform(platform string) bool {
	for _, p := range c.Platforms {
		if p == platform {
			return true
		}
	}
	return platform == CPUPlatform || platform == c.GPUPlatform
}
