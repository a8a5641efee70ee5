package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Dahie/rbbcode/pkg/bbcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
unknown_tags: drop
tags:
  - name: smiley
    category: leaf
  - name: s
  - name: steps
    category: block
  - name: step
    category: listitem
    container: steps
elements:
  s: del
  steps: ol
  step: li
leaves:
  smiley: '<img src="/smiley.png" alt=":)"/>'
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	spec, ok := cfg.Schema().Lookup("smiley")
	require.True(t, ok)
	assert.Equal(t, bbcode.Leaf, spec.Category)

	spec, ok = cfg.Schema().Lookup("s")
	require.True(t, ok)
	assert.Equal(t, bbcode.Inline, spec.Category)
	assert.True(t, cfg.Schema().IsRecognized("b"), "default tags are kept")

	p := bbcode.New(cfg.Options()...)
	got, err := p.Parse("[s]old[/s] [:smiley] [foo]x[/foo]\n\n[steps][step]one[step]two[/steps]")
	require.NoError(t, err)
	assert.Equal(t, `<p><del>old</del> <img src="/smiley.png" alt=":)"/> x</p><ol><li>one</li><li>two</li></ol>`, got)
}

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	got, err := bbcode.New(cfg.Options()...).Parse("[foo]x[/foo]")
	require.NoError(t, err)
	assert.Equal(t, "<p>[foo]x</p>", got)
}

func TestInvalid(t *testing.T) {
	cases := map[string]string{
		"policy":    "unknown_tags: maybe",
		"category":  "tags:\n  - name: t\n    category: table",
		"name":      "tags:\n  - category: inline",
		"digits":    "tags:\n  - name: h1",
		"dash":      "tags:\n  - name: my-tag",
		"container": "tags:\n  - name: step\n    category: listitem\n    container: ol2",
		"yaml":      "tags: [",
	}
	for name, data := range cases {
		_, err := Parse([]byte(data))
		assert.Error(t, err, name)
	}
}

func TestItemTagName(t *testing.T) {
	cfg, err := Parse([]byte("tags:\n  - name: '*'\n    category: listitem\n    container: steps\n  - name: steps\n    category: block"))
	require.NoError(t, err)
	spec, ok := cfg.Schema().Lookup("*")
	require.True(t, ok)
	assert.Equal(t, "steps", spec.Container)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rbbcode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "del", cfg.Renderer().Elements["s"])

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
