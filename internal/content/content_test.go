package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, p.Name)
	assert.Equal(t, []string{"hero", "resume", "contact"}, p.Sections)
	assert.Len(t, p.Projects, 4)
	require.Len(t, p.Work, 2)
	assert.Equal(t, "Target", p.Work[0].Organization)
	assert.Len(t, p.Work[0].Highlights, 3)
	require.Len(t, p.Education, 2)
	assert.True(t, p.HasSection("resume"))
	assert.False(t, p.HasSection("blog"))
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "content.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Test\nsections: [a, b]\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Test", p.Name)
	assert.Equal(t, []string{"a", "b"}, p.Sections)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"bad yaml":          "name: [",
		"no name":           "sections: [a]",
		"no sections":       "name: x",
		"duplicate section": "name: x\nsections: [a, a]",
		"empty section":     "name: x\nsections: [a, '']",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestMarkdown(t *testing.T) {
	html, err := Markdown("I like **Go**.\n\n<script>alert(1)</script>")
	require.NoError(t, err)

	s := string(html)
	assert.Contains(t, s, "<strong>Go</strong>")
	assert.False(t, strings.Contains(s, "<script>"), "raw html must not pass through")
}

func TestCheckSections(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	assert.NoError(t, p.CheckSections(nil))
	assert.NoError(t, p.CheckSections([]string{"resume", "contact"}))
	assert.Error(t, p.CheckSections([]string{"resume", "resume"}))
	assert.Error(t, p.CheckSections([]string{""}))

	err = p.CheckSections([]string{"hero", "blog"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"blog"`)
}
