// Copyright (c) 2026 Scribe Team
// Scribe - multi-user blogging application
// This source code is licensed under the MIT license found in the LICENSE file.

// i18n-linter checks the locale files against the message IDs referenced by
// Go code (i18n.T calls) and HTML templates ({{t "..."}} calls).
//
// It reports keys that are used but missing from a locale, keys present in
// the primary locale but never used, and translations whose fmt verbs do not
// match the primary locale. Missing keys and verb mismatches fail the run.
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	localesDir    = "internal/i18n/locales"
	primaryLocale = "en.yaml"
	projectRoot   = "."
)

var (
	goKeyRe       = regexp.MustCompile(`i18n\.T\("([^"]+)"`)
	templateKeyRe = regexp.MustCompile(`\{\{-?\s*t\s+"([^"]+)"`)
	verbRe        = regexp.MustCompile(`%[-+# 0-9.]*[a-zA-Z]`)
)

// report is the outcome of one lint run. Every slice is sorted.
type report struct {
	Missing  map[string][]string // locale file -> keys used in code but absent
	Orphaned []string            // keys in the primary locale that nothing references
	Verbs    []string            // "file: key" entries whose fmt verbs differ from the primary
}

func (r report) failed() bool {
	return len(r.Missing) > 0 || len(r.Verbs) > 0
}

func main() {
	fmt.Println("Running i18n linter...")
	r, err := lint(projectRoot, filepath.Join(projectRoot, localesDir))
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("--- Missing keys ---")
	if len(r.Missing) == 0 {
		fmt.Println("  none")
	}
	files := make([]string, 0, len(r.Missing))
	for f := range r.Missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		for _, k := range r.Missing[f] {
			fmt.Printf("  - %s: %s\n", f, k)
		}
	}

	fmt.Println("--- Format verb mismatches ---")
	if len(r.Verbs) == 0 {
		fmt.Println("  none")
	}
	for _, v := range r.Verbs {
		fmt.Printf("  - %s\n", v)
	}

	fmt.Println("--- Orphaned keys (warning) ---")
	if len(r.Orphaned) == 0 {
		fmt.Println("  none")
	}
	for _, k := range r.Orphaned {
		fmt.Printf("  - %s\n", k)
	}

	if r.failed() {
		fmt.Println("Found issues that need to be addressed.")
		os.Exit(1)
	}
	fmt.Println("All translation files are consistent.")
}

// lint scans root for referenced keys and compares them with every locale
// file in dir.
func lint(root, dir string) (report, error) {
	r := report{Missing: map[string][]string{}}

	used, prefixes, err := findUsedKeys(root)
	if err != nil {
		return r, fmt.Errorf("scan sources: %w", err)
	}
	primary, err := loadLocale(filepath.Join(dir, primaryLocale))
	if err != nil {
		return r, fmt.Errorf("load primary locale: %w", err)
	}
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return r, err
	}

	for key := range primary {
		if _, ok := used[key]; ok || hasPrefix(key, prefixes) {
			continue
		}
		r.Orphaned = append(r.Orphaned, key)
	}
	sort.Strings(r.Orphaned)

	for _, f := range files {
		msgs, err := loadLocale(f)
		if err != nil {
			return r, fmt.Errorf("load %s: %w", f, err)
		}
		name := filepath.Base(f)
		var missing []string
		for key := range used {
			if _, ok := msgs[key]; !ok {
				missing = append(missing, key)
			}
		}
		if name != primaryLocale {
			for key, want := range primary {
				got, ok := msgs[key]
				if !ok {
					if _, counted := used[key]; !counted {
						missing = append(missing, key)
					}
					continue
				}
				if !sameVerbs(want, got) {
					r.Verbs = append(r.Verbs, name+": "+key)
				}
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			r.Missing[name] = missing
		}
	}
	sort.Strings(r.Verbs)
	return r, nil
}

// findUsedKeys returns the literal message IDs referenced under root and the
// prefixes of IDs that are built at runtime (i18n.T("field." + name)).
func findUsedKeys(root string) (map[string]struct{}, []string, error) {
	keys := make(map[string]struct{})
	var prefixes []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "tools" || strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		var re *regexp.Regexp
		switch {
		case strings.HasSuffix(path, "_test.go"):
			return nil
		case strings.HasSuffix(path, ".go"):
			re = goKeyRe
		case strings.HasSuffix(path, ".html"):
			re = templateKeyRe
		default:
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		for _, m := range re.FindAllStringSubmatch(string(content), -1) {
			if strings.HasSuffix(m[1], ".") {
				prefixes = append(prefixes, m[1])
				continue
			}
			keys[m[1]] = struct{}{}
		}
		return nil
	})
	return keys, prefixes, err
}

// loadLocale reads a flat message file.
func loadLocale(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]string
	if err := yaml.Unmarshal(content, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func sameVerbs(a, b string) bool {
	a, b = strings.ReplaceAll(a, "%%", ""), strings.ReplaceAll(b, "%%", "")
	va, vb := verbRe.FindAllString(a, -1), verbRe.FindAllString(b, -1)
	if len(va) != len(vb) {
		return false
	}
	for i := range va {
		if va[i] != vb[i] {
			return false
		}
	}
	return true
}

func hasPrefix(key string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
