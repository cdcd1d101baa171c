package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// smart punctuation that sneaks in from web forms and word processors
var quoteReplacements = map[string]string{
	"“": `"`, "”": `"`,
	"‘": "'", "’": "'",
	"–": "-", "—": "--",
	"…": "...",
}

// CleanQuotes replaces smart quotes, dashes, and ellipses with their
// plain ASCII equivalents.
func CleanQuotes(s string) string {
	for bad, good := range quoteReplacements {
		s = strings.ReplaceAll(s, bad, good)
	}
	return s
}

// Clean applies CleanQuotes to every prose field of the term and sorts
// the list fields, matching the registry's file conventions.
func (t *Term) Clean() {
	t.Name = CleanQuotes(t.Name)
	t.Definition = CleanQuotes(t.Definition)
	t.Discussion = CleanQuotes(t.Discussion)

	cleanAll := func(list []string) []string {
		out := make([]string, 0, len(list))
		for _, s := range list {
			s = strings.TrimSpace(strings.TrimPrefix(CleanQuotes(s), "- "))
			if s != "" {
				out = append(out, s)
			}
		}
		sort.Strings(out)
		return out
	}

	t.Synonyms = cleanAll(t.Synonyms)
	t.Relationships = cleanAll(t.Relationships)
	t.PromptExamples = cleanAll(t.PromptExamples)
	t.Examples = cleanAll(t.Examples)

	if t.AgentExecution != nil {
		t.AgentExecution.Interpretation = strings.TrimSpace(
			strings.TrimSuffix(CleanQuotes(t.AgentExecution.Interpretation), ":"))
		t.AgentExecution.Actions = cleanAll(t.AgentExecution.Actions)
		if t.AgentExecution.Interpretation == "" && len(t.AgentExecution.Actions) == 0 {
			t.AgentExecution = nil
		}
	}

	tags := make([]string, 0, len(t.Tags))
	seen := make(map[string]bool)
	for _, tag := range t.Tags {
		tag = strings.TrimSpace(CleanQuotes(tag))
		if tag != "" && !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	t.Tags = tags
}

// Filename returns the YAML filename for the term.
func (t *Term) Filename() string {
	return Slugify(t.Name) + ".yaml"
}

// Save writes the term to standards/<status>/<slug>.yaml with the
// canonical field order (the struct order mirrors the registry's
// documented field ordering).
func (t *Term) Save(standardsDir string) (string, error) {
	if strings.TrimSpace(t.Name) == "" {
		return "", fmt.Errorf("term name is required")
	}
	status := t.Status
	if status == "" {
		status = StatusDraft
	}

	dir := filepath.Join(standardsDir, string(status))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create status directory: %w", err)
	}

	data, err := yaml.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal term: %w", err)
	}

	path := filepath.Join(dir, t.Filename())
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write term file: %w", err)
	}
	return path, nil
}

// NewDraft scaffolds a draft term record with the standard defaults a
// contributor fills in after copying the template.
func NewDraft(name, author, github string) *Term {
	return &Term{
		Name:    strings.TrimSpace(name),
		Version: DefaultVersion,
		Authors: []Author{{Name: author, GitHub: github}},
		Tags:    []string{"cat-mip", "core", "msp"},
		History: []HistoryEntry{{
			Date:   time.Now().Format("2006-01-02"),
			Author: github,
			Reason: "Initial term addition to build registry",
		}},
		Status: StatusDraft,
	}
}
