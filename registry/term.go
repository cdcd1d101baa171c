// Package registry provides the Term Record data model and loading for
// the CAT-MIP terminology registry. Term records are YAML files stored
// one level deep under standards/<status>/, where the folder name is
// the source of truth for the term's lifecycle status.
package registry

import (
	"fmt"
	"strings"
)

// Status is a term's lifecycle state, derived from its standards folder.
type Status string

const (
	// StatusAccepted marks terms ratified into the registry.
	StatusAccepted Status = "accepted"

	// StatusDraft marks proposed terms under discussion.
	StatusDraft Status = "draft"

	// StatusDeprecated marks terms retired from active use.
	StatusDeprecated Status = "deprecated"

	// StatusRejected marks terms declined by the community.
	StatusRejected Status = "rejected"
)

// Statuses returns all lifecycle statuses in their canonical order.
func Statuses() []Status {
	return []Status{StatusAccepted, StatusDraft, StatusDeprecated, StatusRejected}
}

// ParseStatus converts a folder name to a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(s)) {
	case StatusAccepted:
		return StatusAccepted, nil
	case StatusDraft:
		return StatusDraft, nil
	case StatusDeprecated:
		return StatusDeprecated, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", fmt.Errorf("unknown status folder: %s", s)
	}
}

// Title returns the human heading for a status index page.
func (s Status) Title() string {
	switch s {
	case StatusAccepted:
		return "Accepted Terms"
	case StatusDraft:
		return "Draft Terms"
	case StatusDeprecated:
		return "Deprecated Terms"
	case StatusRejected:
		return "Rejected Terms"
	default:
		return "Unknown Terms"
	}
}

// Author identifies a term contributor.
type Author struct {
	Name   string `yaml:"name" json:"name"`
	GitHub string `yaml:"github,omitempty" json:"github,omitempty"`
	Org    string `yaml:"org,omitempty" json:"org,omitempty"`
}

// HistoryEntry records one lifecycle event for a term.
type HistoryEntry struct {
	Date   string `yaml:"date" json:"date"`
	Author string `yaml:"author" json:"author"`
	Reason string `yaml:"reason" json:"reason"`
}

// AgentExecution describes how an agent should interpret and act on a
// term when it appears in a natural-language request.
type AgentExecution struct {
	Interpretation string   `yaml:"interpretation,omitempty" json:"interpretation,omitempty"`
	Actions        []string `yaml:"actions" json:"actions"`
}

// Term is a single canonical entry in the terminology registry.
//
// Name is the canonical term: Title Case, singular, unique within the
// registry ignoring case. Status and Path are derived during loading
// and never serialized into the term file.
type Term struct {
	ID             string          `yaml:"id,omitempty"`
	Name           string          `yaml:"term"`
	Version        string          `yaml:"version,omitempty"`
	Authors        []Author        `yaml:"authors,omitempty"`
	Discussion     string          `yaml:"discussion,omitempty"`
	Categories     []string        `yaml:"categories,omitempty"`
	Tags           []string        `yaml:"tags,omitempty"`
	Definition     string          `yaml:"definition,omitempty"`
	History        []HistoryEntry  `yaml:"history,omitempty"`
	Synonyms       []string        `yaml:"synonyms,omitempty"`
	Relationships  []string        `yaml:"relationships,omitempty"`
	PromptExamples []string        `yaml:"prompt_examples,omitempty"`
	Examples       []string        `yaml:"examples,omitempty"`
	AgentExecution *AgentExecution `yaml:"agent_execution,omitempty"`
	SearchBoost    float64         `yaml:"search_boost,omitempty"`

	// Derived at load time.
	Status Status `yaml:"-"`
	Path   string `yaml:"-"`
	Slug   string `yaml:"-"`
}

// Fallback values used by Normalize so downstream consumers never see
// empty critical fields.
const (
	UnnamedTerm       = "UNNAMED TERM"
	NoDefinition      = "No definition provided."
	DefaultVersion    = "1.0"
	DefaultAnonymous  = "Anonymous"
	DefaultRegistryAt = "2025-09-19"
)

// Normalize rewrites the term so critical text fields are never empty
// and list fields are never nil. Exported registries are guaranteed
// machine-readable: consumers need no defensive code.
func (t *Term) Normalize() {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		t.Name = UnnamedTerm
	}
	t.Definition = strings.TrimSpace(t.Definition)
	if t.Definition == "" {
		t.Definition = NoDefinition
	}
	t.Version = strings.TrimSpace(t.Version)
	if t.Version == "" {
		t.Version = DefaultVersion
	}

	if t.AgentExecution == nil {
		t.AgentExecution = &AgentExecution{}
	}
	actions := make([]string, 0, len(t.AgentExecution.Actions))
	for _, a := range t.AgentExecution.Actions {
		a = strings.TrimSpace(a)
		if a != "" {
			actions = append(actions, a)
		}
	}
	t.AgentExecution.Actions = actions

	if len(t.Authors) > 0 {
		name := strings.TrimSpace(t.Authors[0].Name)
		if name == "" {
			name = DefaultAnonymous
		}
		t.Authors[0].Name = name
	}
	if len(t.History) > 0 {
		date := strings.TrimSpace(t.History[0].Date)
		if date == "" {
			date = DefaultRegistryAt
		}
		t.History[0].Date = date
	}
	if len(t.Categories) > 0 {
		cat := strings.TrimSpace(t.Categories[0])
		if cat == "" {
			t.Categories = nil
		} else {
			t.Categories = []string{cat}
		}
	}

	t.Synonyms = trimList(t.Synonyms)
	t.Relationships = trimList(t.Relationships)
	t.PromptExamples = trimList(t.PromptExamples)
	t.Examples = trimList(t.Examples)
}

// Author returns the primary author's name, or the anonymous fallback.
func (t *Term) Author() string {
	if len(t.Authors) > 0 && strings.TrimSpace(t.Authors[0].Name) != "" {
		return t.Authors[0].Name
	}
	return DefaultAnonymous
}

// DateAdded returns the date of the first history entry.
func (t *Term) DateAdded() string {
	if len(t.History) > 0 && strings.TrimSpace(t.History[0].Date) != "" {
		return t.History[0].Date
	}
	return DefaultRegistryAt
}

// Category returns the first category, or empty.
func (t *Term) Category() string {
	if len(t.Categories) > 0 {
		return t.Categories[0]
	}
	return ""
}

func trimList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
