// Package export produces the machine-readable registry artifacts:
// JSON term lists, a SKOS concept scheme, and the vendor prompts CSV.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cat-mip/cat-mip/registry"
)

// Registry metadata constants shared by the exports.
const (
	RegistryName = "cat-mip.org"
	SchemeTitle  = "CAT-MIP Terminology Registry"
	SchemeAuthor = "CAT-MIP Community"
	SchemeIssued = "2025-09-19"

	// FileJSON and FileDevJSON are the export filenames. The dev file
	// additionally includes draft terms.
	FileJSON    = "cat-mip.json"
	FileDevJSON = "cat-mip-dev.json"
)

// Metadata is the per-term provenance block in the JSON export.
type Metadata struct {
	Author    string `json:"author"`
	SourceURL string `json:"source_url"`
	Version   string `json:"version"`
	DateAdded string `json:"date_added"`
	Registry  string `json:"registry"`
	TermType  string `json:"term_type"`
}

// TermExport is the JSON shape consumed by downstream agents and
// vendors. Every field is always present: no nulls, no missing
// arrays. [] means explicitly empty.
type TermExport struct {
	ID              string                  `json:"id"`
	CanonicalTerm   string                  `json:"canonical_term"`
	Definition      string                  `json:"definition"`
	Synonyms        []string                `json:"synonyms"`
	Relationships   []string                `json:"relationships"`
	PromptExamples  []string                `json:"prompt_examples"`
	Examples        []string                `json:"examples"`
	AgentExecution  registry.AgentExecution `json:"agent_execution"`
	Status          string                  `json:"status"`
	ExpectedOutputs []any                   `json:"expected_outputs,omitempty"`
	Metadata        Metadata                `json:"metadata"`
}

// ExportTerm converts a loaded term record to its export shape.
func ExportTerm(t *registry.Term) TermExport {
	t.Normalize()

	stem := strings.TrimSuffix(filepath.Base(t.Path), filepath.Ext(t.Path))
	if t.Path == "" {
		stem = t.Slug
	}

	return TermExport{
		ID:             t.ID,
		CanonicalTerm:  t.Name,
		Definition:     t.Definition,
		Synonyms:       emptyNotNil(t.Synonyms),
		Relationships:  emptyNotNil(t.Relationships),
		PromptExamples: emptyNotNil(t.PromptExamples),
		Examples:       emptyNotNil(t.Examples),
		AgentExecution: *t.AgentExecution,
		Status:         string(t.Status),
		Metadata: Metadata{
			Author:    t.Author(),
			SourceURL: fmt.Sprintf("https://github.com/cat-mip/cat-mip/blob/main/standards/%s/%s.md", t.Status, stem),
			Version:   t.Version,
			DateAdded: t.DateAdded(),
			Registry:  RegistryName,
			TermType:  t.Category(),
		},
	}
}

// ExportTerms converts and sorts terms by canonical name,
// case-insensitively.
func ExportTerms(terms []*registry.Term) []TermExport {
	out := make([]TermExport, 0, len(terms))
	for _, t := range terms {
		out = append(out, ExportTerm(t))
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].CanonicalTerm) < strings.ToLower(out[j].CanonicalTerm)
	})
	return out
}

// WriteJSON writes cat-mip.json (accepted terms only) and
// cat-mip-dev.json (accepted plus draft) into buildDir.
func WriteJSON(reg *registry.Registry, buildDir string) error {
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return fmt.Errorf("create build dir: %w", err)
	}

	accepted := ExportTerms(reg.ByStatus(registry.StatusAccepted))
	dev := ExportTerms(append(reg.ByStatus(registry.StatusAccepted), reg.ByStatus(registry.StatusDraft)...))

	if err := writeJSONFile(filepath.Join(buildDir, FileJSON), accepted); err != nil {
		return err
	}
	return writeJSONFile(filepath.Join(buildDir, FileDevJSON), dev)
}

func writeJSONFile(path string, terms []TermExport) error {
	data, err := json.MarshalIndent(terms, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal terms: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// LoadJSON reads a previously written terms export, used as the CSV
// export input.
func LoadJSON(path string) ([]TermExport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read terms JSON: %w", err)
	}
	var terms []TermExport
	if err := json.Unmarshal(data, &terms); err != nil {
		return nil, fmt.Errorf("parse terms JSON: %w", err)
	}
	return terms, nil
}

func emptyNotNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
