package risk

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calder/vouch/internal/adapters/templates"
)

func TestLoadTemplatesFromFS(t *testing.T) {
	loaded, err := LoadTemplatesFromFS(templates.FS, "banks")
	require.NoError(t, err)

	// The embedded catalog and the in-code defaults stay in lockstep.
	assert.Equal(t, DefaultTemplates(), loaded)
}

func TestLoadTemplatesFromFS_FileNameOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/b_second.yaml": &fstest.MapFile{Data: []byte("- name: Beta\n  keywords: [beta bank]\n")},
		"tpl/a_first.yaml":  &fstest.MapFile{Data: []byte("- name: Alpha\n  keywords: [alpha bank]\n")},
		"tpl/notes.txt":     &fstest.MapFile{Data: []byte("ignored")},
	}

	loaded, err := LoadTemplatesFromFS(fsys, "tpl")
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Alpha", loaded[0].Name)
	assert.Equal(t, "Beta", loaded[1].Name)
}

func TestLoadTemplatesFromFS_DuplicateName(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/a.yaml": &fstest.MapFile{Data: []byte("- name: RBC\n  keywords: [royal]\n")},
		"tpl/b.yaml": &fstest.MapFile{Data: []byte("- name: RBC\n  keywords: [rbc]\n")},
	}

	_, err := LoadTemplatesFromFS(fsys, "tpl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate template "RBC"`)
}

func TestLoadTemplatesFromFS_MissingName(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/a.yaml": &fstest.MapFile{Data: []byte("- keywords: [orphan]\n")},
	}

	_, err := LoadTemplatesFromFS(fsys, "tpl")
	assert.ErrorContains(t, err, "template missing name")
}

func TestLoadTemplatesFromFS_EmptyKeywords(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/a.yaml": &fstest.MapFile{Data: []byte("- name: Hollow\n  keywords: []\n")},
	}

	_, err := LoadTemplatesFromFS(fsys, "tpl")
	assert.ErrorContains(t, err, `template "Hollow" has no keywords`)
}

func TestLoadTemplatesFromFS_MalformedYAML(t *testing.T) {
	fsys := fstest.MapFS{
		"tpl/a.yaml": &fstest.MapFile{Data: []byte("- name: [unclosed\n")},
	}

	_, err := LoadTemplatesFromFS(fsys, "tpl")
	assert.ErrorContains(t, err, "parse tpl/a.yaml")
}

func TestLoadTemplatesFromFS_MissingDir(t *testing.T) {
	_, err := LoadTemplatesFromFS(fstest.MapFS{}, "absent")
	assert.ErrorContains(t, err, `read templates dir "absent"`)
}
