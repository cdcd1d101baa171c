package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// StandardsDir is the default directory holding term YAML files.
const StandardsDir = "standards"

// Registry is the loaded set of term records, indexed for lookup by
// canonical name (case-insensitive).
type Registry struct {
	Terms []*Term

	byName map[string]*Term
	logger *slog.Logger
}

// LoadOptions configures registry loading.
type LoadOptions struct {
	// StandardsPath is the path to the standards directory.
	StandardsPath string

	// Logger receives duplicate-term warnings. Defaults to slog.Default.
	Logger *slog.Logger
}

// Load reads every term file one level deep inside the status folders.
// Root-level files (such as template.yaml) are ignored completely.
//
// Duplicate canonical names (ignoring case) are kept but logged, and
// the later file's slug gets a "-dup" suffix so pages never collide.
func Load(opts LoadOptions) (*Registry, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	standards := opts.StandardsPath
	if standards == "" {
		standards = StandardsDir
	}

	if _, err := os.Stat(standards); err != nil {
		return nil, fmt.Errorf("standards directory: %w", err)
	}

	paths, err := doublestar.FilepathGlob(filepath.Join(standards, "*", "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("glob standards: %w", err)
	}
	sort.Strings(paths)

	reg := &Registry{byName: make(map[string]*Term), logger: logger}

	for _, path := range paths {
		status, err := ParseStatus(filepath.Base(filepath.Dir(path)))
		if err != nil {
			// Not one of the four status folders; skip quietly.
			continue
		}

		term, err := LoadTerm(path)
		if err != nil {
			return nil, err
		}
		term.Status = status

		if term.Name == "" {
			// Fall back to a display name derived from the filename.
			stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			term.Name = titleFromStem(stem)
		}
		term.Slug = Slugify(term.Name)

		key := strings.ToLower(term.Name)
		if _, exists := reg.byName[key]; exists {
			logger.Warn("duplicate term (ignoring case)", "term", term.Name, "path", path)
			term.Slug += "-dup"
		} else {
			reg.byName[key] = term
		}

		reg.Terms = append(reg.Terms, term)
	}

	return reg, nil
}

// LoadTerm parses a single term YAML file. Status and Slug are left
// for the caller to derive.
func LoadTerm(path string) (*Term, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read term file: %w", err)
	}

	var term Term
	if err := yaml.Unmarshal(data, &term); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	term.Name = strings.TrimSpace(term.Name)
	term.Path = path
	return &term, nil
}

// Lookup returns the term with the given canonical name, ignoring case.
func (r *Registry) Lookup(name string) (*Term, bool) {
	t, ok := r.byName[strings.ToLower(name)]
	return t, ok
}

// ByStatus returns the terms in the given status, sorted by name
// (case-insensitive).
func (r *Registry) ByStatus(status Status) []*Term {
	var terms []*Term
	for _, t := range r.Terms {
		if t.Status == status {
			terms = append(terms, t)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		return strings.ToLower(terms[i].Name) < strings.ToLower(terms[j].Name)
	})
	return terms
}

// Names returns all canonical names keyed case-insensitively.
func (r *Registry) Names() map[string]*Term {
	return r.byName
}

// NextID mints the next sequential registry ID from the highest ID
// currently in use.
func (r *Registry) NextID() string {
	max := 0
	for _, t := range r.Terms {
		if n, ok := ParseID(t.ID); ok && n > max {
			max = n
		}
	}
	return FormatID(max + 1)
}

// titleFromStem converts a file stem like "ai-agent" to "Ai Agent".
func titleFromStem(stem string) string {
	words := strings.Split(strings.ReplaceAll(stem, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
