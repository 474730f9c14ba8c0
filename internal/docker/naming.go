package docker

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"raytag/internal/config"
)

// NameData is the value the naming templates are executed against.
type NameData struct {
	ImageSpec
	RayVersion   string
	BaseRegistry string
	BuildID      string
}

// Namer renders build input names from the configured templates.
type Namer struct {
	wheel        *template.Template
	baseImage    *template.Template
	requirements *template.Template
}

// NewNamer parses the templates in cfg.
func NewNamer(t config.Templates) (*Namer, error) {
	n := &Namer{}
	for _, tt := range []struct {
		name string
		src  string
		dst  **template.Template
	}{
		{"wheel", t.Wheel, &n.wheel},
		{"base_image", t.BaseImage, &n.baseImage},
		{"requirements", t.Requirements, &n.requirements},
	} {
		tmpl, err := template.New(tt.name).
			Funcs(sprig.TxtFuncMap()).
			Option("missingkey=error").
			Parse(strings.TrimSpace(tt.src))
		if err != nil {
			return nil, fmt.Errorf("%w: template %s: %v", config.ErrInvalidConfig, tt.name, err)
		}
		*tt.dst = tmpl
	}
	return n, nil
}

func (n *Namer) Wheel(d NameData) (string, error)        { return render(n.wheel, d) }
func (n *Namer) BaseImage(d NameData) (string, error)    { return render(n.baseImage, d) }
func (n *Namer) Requirements(d NameData) (string, error) { return render(n.requirements, d) }

func render(t *template.Template, d NameData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	out := strings.TrimSpace(buf.String())
	if out == "" {
		return "", fmt.Errorf("render %s: empty result", t.Name())
	}
	return out, nil
}
