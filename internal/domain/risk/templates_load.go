package risk

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadTemplatesFromFS loads institution templates from every YAML file
// under dir, in file-name order. Template names must be unique across
// files and every template needs at least one keyword.
func LoadTemplatesFromFS(fsys fs.FS, dir string) ([]Template, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read templates dir %q: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var all []Template
	seen := make(map[string]string) // name → source file
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		path := dir + "/" + entry.Name()
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		var templates []Template
		if err := yaml.Unmarshal(data, &templates); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}

		for _, tpl := range templates {
			if tpl.Name == "" {
				return nil, fmt.Errorf("%s: template missing name", entry.Name())
			}
			if len(tpl.Keywords) == 0 {
				return nil, fmt.Errorf("%s: template %q has no keywords", entry.Name(), tpl.Name)
			}
			if prev, ok := seen[tpl.Name]; ok {
				return nil, fmt.Errorf("duplicate template %q (first in %s, again in %s)", tpl.Name, prev, entry.Name())
			}
			seen[tpl.Name] = entry.Name()
			all = append(all, tpl)
		}
	}

	return all, nil
}
