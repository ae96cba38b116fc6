// Package content holds the words on the site: the bio, projects and résumé
// entries. They live in YAML so copy edits don't need a rebuild.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"os"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Profile is everything the templates render.
type Profile struct {
	Name      string    `yaml:"name" json:"name"`
	Headline  string    `yaml:"headline" json:"headline"`
	Email     string    `yaml:"email" json:"email"`
	About     string    `yaml:"about" json:"about"`
	Sections  []string  `yaml:"sections" json:"sections"`
	Projects  []Project `yaml:"projects" json:"projects"`
	Work      []Entry   `yaml:"work" json:"work"`
	Education []Entry   `yaml:"education" json:"education"`
}

type Project struct {
	Name    string `yaml:"name" json:"name"`
	Summary string `yaml:"summary" json:"summary"`
	URL     string `yaml:"url,omitempty" json:"url,omitempty"`
}

// Entry is one job or one qualification.
type Entry struct {
	Title        string   `yaml:"title" json:"title"`
	Organization string   `yaml:"organization" json:"organization"`
	Start        string   `yaml:"start" json:"start"`
	End          string   `yaml:"end" json:"end"`
	Logo         string   `yaml:"logo,omitempty" json:"logo,omitempty"`
	Highlights   []string `yaml:"highlights" json:"highlights"`
}

// Default returns the embedded profile.
func Default() (*Profile, error) {
	return Parse(defaultYAML)
}

// Load reads a profile from path, or the embedded one when path is empty.
func Load(path string) (*Profile, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes and checks a YAML profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("profile name is required")
	}
	if len(p.Sections) == 0 {
		return nil, fmt.Errorf("profile needs at least one section")
	}
	seen := make(map[string]bool, len(p.Sections))
	for _, s := range p.Sections {
		if s == "" || seen[s] {
			return nil, fmt.Errorf("section ids must be unique and non-empty, got %q", s)
		}
		seen[s] = true
	}
	return &p, nil
}

// HasSection reports whether id is one of the profile's sections.
func (p *Profile) HasSection(id string) bool {
	for _, s := range p.Sections {
		if s == id {
			return true
		}
	}
	return false
}

// CheckSections verifies that ids is a usable override of the profile's
// sections: non-empty, no repeats, and each one present in the profile.
func (p *Profile) CheckSections(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			return fmt.Errorf("section ids must be unique and non-empty, got %q", id)
		}
		if !p.HasSection(id) {
			return fmt.Errorf("section %q is not in the profile %v", id, p.Sections)
		}
		seen[id] = true
	}
	return nil
}

var md = goldmark.New()

// Markdown renders trusted profile markdown to HTML.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}
