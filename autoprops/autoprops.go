// Package autoprops resolves a default translation policy for a path from
// an ordered glob-rule file (component I), consulted by the driver only
// when the property store has no explicit record for that path.
package autoprops

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// Rule maps one glob pattern to the policy applied when it matches.
type Rule struct {
	Glob     string `yaml:"glob"`
	EOLStyle string `yaml:"eol-style"`
	Keywords string `yaml:"keywords"`
	Special  bool   `yaml:"special"`
}

// Load reads an ordered list of Rule from a YAML file. The zero Rule slice
// (nil, nil) is returned for an empty path, matching a caller that did not
// configure an auto-props file.
func Load(rulesPath string) ([]Rule, error) {
	if rulesPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		return nil, fmt.Errorf("autoprops: read %s: %w", rulesPath, err)
	}
	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("autoprops: parse %s: %w", rulesPath, err)
	}
	return rules, nil
}

// Resolve returns the first rule whose glob matches repoPath or its
// basename, in file order. ok is false when no rule matches.
func Resolve(rules []Rule, repoPath string) (Rule, bool) {
	base := path.Base(filepath.ToSlash(repoPath))
	slashPath := filepath.ToSlash(repoPath)
	for _, r := range rules {
		if matched, _ := path.Match(r.Glob, slashPath); matched {
			return r, true
		}
		if matched, _ := path.Match(r.Glob, base); matched {
			return r, true
		}
	}
	return Rule{}, false
}
