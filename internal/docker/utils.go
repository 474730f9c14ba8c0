package docker

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/distribution/reference"
)

var ErrInvalidImageSpec = errors.New("invalid image spec")

// ---- ImageSpec validation ----

// Validate only requires every field to be set; values are free-form.
func (s ImageSpec) Validate() error {
	var missing []string
	if strings.TrimSpace(s.PythonVersion) == "" {
		missing = append(missing, "python version")
	}
	if strings.TrimSpace(s.Platform) == "" {
		missing = append(missing, "platform")
	}
	if strings.TrimSpace(s.ImageType) == "" {
		missing = append(missing, "image type")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidImageSpec, strings.Join(missing, ", "))
	}
	return nil
}

var pyVersion = regexp.MustCompile(`^py(\d)(\d+)$`)

// pythonDigits splits "py38" into ("3", "8").
func pythonDigits(pv string) (major, minor string, err error) {
	m := pyVersion.FindStringSubmatch(pv)
	if m == nil {
		return "", "", fmt.Errorf("%w: python version %q is not of the form pyNN", ErrInvalidImageSpec, pv)
	}
	return m[1], m[2], nil
}

// ---- Image refs ----

// ImageNames returns "<registry>/<imageType>:<tag>" for every tag, in order.
// The refs are not checked; see ValidateRefs.
func ImageNames(registry, imageType string, tags []string) ([]string, error) {
	if len(tags) == 0 {
		return nil, errors.New("no tags to name")
	}
	repo := strings.TrimRight(strings.TrimSpace(registry), "/") + "/" + imageType
	if strings.TrimSpace(registry) == "" {
		repo = imageType
	}

	refs := make([]string, 0, len(tags))
	for _, tag := range tags {
		refs = append(refs, repo+":"+tag)
	}
	return refs, nil
}

// ValidateRefs checks every ref against the distribution reference grammar.
// A release branch such as "releases/2.0/rc1" yields tags that are fine to
// print but cannot be pushed.
func ValidateRefs(refs []string) error {
	for _, r := range refs {
		named, err := reference.ParseNormalizedNamed(r)
		if err != nil {
			return fmt.Errorf("%w: invalid image ref %q: %w", ErrInvalidImageSpec, r, err)
		}
		if _, ok := named.(reference.Tagged); !ok {
			return fmt.Errorf("%w: image ref %q has no tag", ErrInvalidImageSpec, r)
		}
	}
	return nil
}

// ---- FS / shell helpers ----

func absOr(p, fallback string) string {
	if a, err := filepath.Abs(p); err == nil {
		return a
	}
	return fallback
}
