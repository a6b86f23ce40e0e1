// Package prompts holds the embedded prompt templates used by the section
// update agent. Each JSON file maps a template key to its text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// SectionsFile holds the section update agent prompts.
const SectionsFile = "sections.json"

type promptFile struct {
	once    sync.Once
	entries map[string]string
	err     error
}

// files is keyed by file name; each file is parsed at most once.
var files sync.Map

func open(name string) (map[string]string, error) {
	v, _ := files.LoadOrStore(name, &promptFile{})
	f := v.(*promptFile)
	f.once.Do(func() {
		data, err := promptFiles.ReadFile(name)
		if err != nil {
			f.err = fmt.Errorf("failed to read prompt file %s: %w", name, err)
			return
		}
		if err := json.Unmarshal(data, &f.entries); err != nil {
			f.err = fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
	})
	return f.entries, f.err
}

// Get returns the template stored under key in the named embedded file.
func Get(filename, key string) (string, error) {
	entries, err := open(filename)
	if err != nil {
		return "", err
	}
	text, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return text, nil
}

// MustGet is Get for templates the agent cannot run without.
func MustGet(filename, key string) string {
	text, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return text
}

// Format substitutes {{.Key}} placeholders in one pass. Placeholders that
// show up inside substituted values are left as they are.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{{."+k+"}}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the keys of the named file in sorted order.
func List(filename string) ([]string, error) {
	entries, err := open(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}
