// Package verify checks registry integrity: unique IDs, required
// fields, naming conventions, and relationship cross-references.
// Errors block a build; warnings are reported but non-fatal.
package verify

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cat-mip/cat-mip/registry"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

	// titlePhraseRe finds Title Case phrases inside relationship
	// strings, e.g. "Remote Monitoring" in "Agent isConnectedTo
	// Remote Monitoring".
	titlePhraseRe = regexp.MustCompile(`\b([A-Z][a-z]+(?: [A-Z][a-z]+)*)\b`)
)

// Issue is a single finding against one term file.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// Result aggregates all findings for a registry.
type Result struct {
	Errors   []Issue
	Warnings []Issue
}

// OK reports whether the registry passed with no errors.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(path, format string, args ...any) {
	r.Errors = append(r.Errors, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) warnf(path, format string, args ...any) {
	r.Warnings = append(r.Warnings, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
}

// Run verifies the loaded registry.
func Run(reg *registry.Registry) *Result {
	res := &Result{}

	checkUniqueIDs(reg, res)
	checkDuplicateNames(reg, res)

	for _, term := range reg.Terms {
		checkTerm(term, reg, res)
	}

	return res
}

// checkUniqueIDs enforces that no two term files share an id. A
// duplicate id corrupts every export keyed on it, so it is fatal.
// Files missing an id (pre-acceptance drafts) only warn.
func checkUniqueIDs(reg *registry.Registry, res *Result) {
	byID := make(map[string][]string)
	for _, term := range reg.Terms {
		id := strings.TrimSpace(term.ID)
		if id == "" {
			res.warnf(term.Path, "missing 'id:' field")
			continue
		}
		byID[id] = append(byID[id], term.Path)
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		paths := byID[id]
		if len(paths) > 1 {
			sort.Strings(paths)
			res.errorf("", "duplicate ID %q used by: %s", id, strings.Join(paths, ", "))
		}
	}
}

func checkDuplicateNames(reg *registry.Registry, res *Result) {
	byName := make(map[string][]string)
	for _, term := range reg.Terms {
		key := strings.ToLower(term.Name)
		byName[key] = append(byName[key], term.Path)
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if paths := byName[name]; len(paths) > 1 {
			sort.Strings(paths)
			res.warnf("", "duplicate term (ignoring case) %q in: %s", name, strings.Join(paths, ", "))
		}
	}
}

func checkTerm(term *registry.Term, reg *registry.Registry, res *Result) {
	path := term.Path

	if strings.TrimSpace(term.Name) == "" {
		res.errorf(path, "missing 'term:' field")
		return
	}

	if term.Name != titleCase(term.Name) {
		res.warnf(path, "term %q is not Title Case", term.Name)
	}

	wantFile := term.Filename()
	if got := filepath.Base(path); got != wantFile && !strings.HasSuffix(term.Slug, "-dup") {
		res.warnf(path, "file name %q does not match term slug (want %q)", got, wantFile)
	}

	if strings.TrimSpace(term.Definition) == "" {
		if term.Status == registry.StatusAccepted {
			res.errorf(path, "accepted term has no definition")
		} else {
			res.warnf(path, "missing definition")
		}
	}

	if term.ID != "" {
		if _, ok := registry.ParseID(term.ID); !ok {
			res.warnf(path, "id %q is not in %s-%%09d form", term.ID, registry.IDPrefix)
		}
	} else if term.Status == registry.StatusAccepted {
		res.errorf(path, "accepted term has no id")
	}

	if term.Status == registry.StatusAccepted && strings.TrimSpace(term.Discussion) == "" {
		res.warnf(path, "accepted term has no discussion link")
	}

	for _, h := range term.History {
		if h.Date != "" && !dateRe.MatchString(h.Date) {
			res.warnf(path, "history date %q is not YYYY-MM-DD", h.Date)
		}
	}

	checkRelationships(term, reg, res)
}

// checkRelationships warns when a relationship mentions a Title Case
// phrase that matches no known term. The phrase heuristic mirrors how
// the SKOS export links skos:related concepts.
func checkRelationships(term *registry.Term, reg *registry.Registry, res *Result) {
	for _, rel := range term.Relationships {
		phrases := titlePhraseRe.FindAllString(rel, -1)
		if len(phrases) == 0 {
			res.warnf(term.Path, "relationship %q names no terms", rel)
			continue
		}
		for _, phrase := range phrases {
			if strings.EqualFold(phrase, term.Name) {
				continue
			}
			if _, ok := reg.Lookup(phrase); !ok {
				res.warnf(term.Path, "relationship %q references unknown term %q", rel, phrase)
			}
		}
	}
}

// titleCase uppercases the first letter of each word, leaving the rest
// of each word untouched (so acronyms like "AI" survive).
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
