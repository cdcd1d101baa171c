package site

import (
	"fmt"
	"strings"

	"github.com/cat-mip/cat-mip/registry"
)

// DraftID is the placeholder shown for terms without a registry ID.
const DraftID = "DRAFT"

// statusBadge maps a lifecycle status to its admonition type and label.
func statusBadge(status registry.Status) (kind, name string) {
	switch status {
	case registry.StatusAccepted:
		return "success", "Accepted"
	case registry.StatusDraft:
		return "warning", "Draft"
	case registry.StatusDeprecated:
		return "failure", "Deprecated"
	case registry.StatusRejected:
		return "note", "Rejected"
	default:
		return "note", "Unknown"
	}
}

// renderTermPage produces the complete Markdown page for one term.
// link is the page-scoped linkify function.
func renderTermPage(term *registry.Term, link func(string) string) string {
	var sb strings.Builder

	sb.WriteString(sectionFrontMatter(term))

	id := term.ID
	if id == "" {
		id = DraftID
	}
	fmt.Fprintf(&sb, "# %s (%s)\n\n", term.Name, id)

	sb.WriteString(sectionBanner(term))
	sb.WriteString(sectionDefinition(term, link))
	sb.WriteString(sectionPromptExamples(term, link))
	sb.WriteString(sectionAgentExecution(term, link))
	sb.WriteString(sectionList("Synonyms", term.Synonyms, link))
	sb.WriteString(sectionList("Relationships", term.Relationships, link))
	sb.WriteString(sectionHistory(term, link))

	return sb.String()
}

func sectionFrontMatter(term *registry.Term) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "title: %s\n", term.Name)
	sb.WriteString("search_boost: 2.0\n")

	if len(term.History) > 0 {
		first := term.History[0].Date
		if first != "" {
			fmt.Fprintf(&sb, "date: %s\n", first)
		}
		latest := term.History[len(term.History)-1].Date
		if latest != "" && latest != first {
			fmt.Fprintf(&sb, "updated: %s\n", latest)
		}
	}

	if len(term.Authors) > 0 {
		sb.WriteString("authors:\n")
		for _, a := range term.Authors {
			fmt.Fprintf(&sb, "  - name: %s\n", a.Name)
			if a.GitHub != "" {
				fmt.Fprintf(&sb, "    github: %s\n", a.GitHub)
			}
			if a.Org != "" {
				fmt.Fprintf(&sb, "    org: %s\n", a.Org)
			}
		}
	}

	if len(term.Tags) > 0 {
		sb.WriteString("tags:\n")
		for _, t := range term.Tags {
			fmt.Fprintf(&sb, "  - %s\n", t)
		}
	}

	sb.WriteString("---\n\n")
	return sb.String()
}

// sectionBanner renders the status admonition. The folder is the
// source of truth; a date and author appear only for drafts (creation
// info) or when a history reason starts with "<Status> -".
func sectionBanner(term *registry.Term) string {
	kind, name := statusBadge(term.Status)
	parts := []string{name}

	if term.Status == registry.StatusDraft && len(term.History) > 0 {
		first := term.History[0]
		if first.Date != "" {
			parts = append(parts, first.Date)
		}
		if first.Author != "" {
			parts = append(parts, "by "+first.Author)
		}
	} else {
		for i := len(term.History) - 1; i >= 0; i-- {
			entry := term.History[i]
			if !reasonHasStatusPrefix(entry.Reason, name) {
				continue
			}
			if entry.Date != "" {
				parts = append(parts, entry.Date)
			}
			if entry.Author != "" {
				parts = append(parts, "by "+entry.Author)
			}
			break
		}
	}

	return fmt.Sprintf("!!! %s \"%s\"\n\n", kind, strings.Join(parts, " • "))
}

// reasonHasStatusPrefix matches reasons like "Accepted – initial vote"
// or "Accepted - initial vote" (en dash and plain hyphen both occur in
// registry files).
func reasonHasStatusPrefix(reason, badge string) bool {
	return strings.HasPrefix(reason, badge+" –") || strings.HasPrefix(reason, badge+" -")
}

func sectionDefinition(term *registry.Term, link func(string) string) string {
	def := strings.TrimSpace(term.Definition)
	if def == "" {
		return ""
	}
	return fmt.Sprintf("## Definition\n\n%s\n\n", link(def))
}

func sectionPromptExamples(term *registry.Term, link func(string) string) string {
	return sectionList("Prompt Examples", term.PromptExamples, link)
}

func sectionAgentExecution(term *registry.Term, link func(string) string) string {
	ae := term.AgentExecution
	if ae == nil {
		return "## Agent Execution\n!!! warning\n\n    No execution defined\n\n"
	}

	interp := strings.TrimSpace(strings.TrimSuffix(ae.Interpretation, ":"))
	if interp != "" {
		interp = link(interp) + ":"
	}

	var sb strings.Builder
	sb.WriteString("## Agent Execution\n")
	if interp != "" {
		sb.WriteString(interp + "\n\n")
	}
	if len(ae.Actions) > 0 {
		for _, a := range ae.Actions {
			a = strings.TrimSpace(strings.TrimPrefix(a, "- "))
			fmt.Fprintf(&sb, "- %s\n", link(a))
		}
		sb.WriteString("\n")
	} else if interp == "" {
		sb.WriteString("!!! info\n\n    No actions defined\n\n")
	}
	return sb.String()
}

func sectionList(title string, items []string, link func(string) string) string {
	if len(items) == 0 {
		return ""
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n", title)
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s\n", link(item))
	}
	sb.WriteString("\n")
	return sb.String()
}

func sectionHistory(term *registry.Term, link func(string) string) string {
	if len(term.History) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## History\n")
	sb.WriteString("| Date       | Author   | Reason                          |\n")
	sb.WriteString("| :--------- | :------- | :------------------------------ |\n")
	for _, h := range term.History {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", h.Date, h.Author, link(h.Reason))
	}
	sb.WriteString("\n")
	return sb.String()
}
