// Package intake turns community submissions into draft term records.
// It parses GitHub issue-form bodies (the "Propose a New Term" form)
// and imports terms from external HTML glossary pages.
package intake

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/cat-mip/cat-mip/registry"
)

// RequiredChecklistItems is the number of acknowledgments the issue
// form requires before a proposal is reviewable: file naming, required
// fields, list formatting, history format, agent execution, and a
// linked discussion.
const RequiredChecklistItems = 6

// noResponse is the marker the issue-form platform inserts for fields
// the submitter left empty.
const noResponse = "_No response_"

var (
	headingRe  = regexp.MustCompile(`(?m)^###\s+(.+)$`)
	checkboxRe = regexp.MustCompile(`(?m)^\s*-\s*\[( |x|X)\]`)
	checkedRe  = regexp.MustCompile(`(?m)^\s*-\s*\[(x|X)\]`)
	listItemRe = regexp.MustCompile(`(?m)^\s*[-*]\s+(.+)$`)
	numberedRe = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+(.+)$`)
)

// Submission is a parsed issue-form body before conversion to a term.
type Submission struct {
	TermName       string
	Definition     string
	Synonyms       []string
	Relationships  []string
	PromptExamples []string
	Interpretation string
	Actions        []string
	Discussion     string

	// ChecklistTotal and ChecklistChecked count the acknowledgment
	// checkboxes found in the form.
	ChecklistTotal   int
	ChecklistChecked int
}

// ParseIssue parses a GitHub issue-form body into a Submission.
// Section headings follow the form's field labels.
func ParseIssue(body string) (*Submission, error) {
	sections := splitSections(body)
	if len(sections) == 0 {
		return nil, fmt.Errorf("no form sections found")
	}

	sub := &Submission{}
	for heading, content := range sections {
		switch normalizeHeading(heading) {
		case "term", "term name":
			sub.TermName = firstLine(content)
		case "definition":
			sub.Definition = strings.TrimSpace(content)
		case "synonyms":
			sub.Synonyms = parseList(content)
		case "relationships":
			sub.Relationships = parseList(content)
		case "prompt examples":
			sub.PromptExamples = parseList(content)
		case "agent interpretation", "interpretation":
			sub.Interpretation = strings.TrimSpace(content)
		case "agent actions", "actions":
			sub.Actions = parseList(content)
		case "discussion", "discussion link":
			sub.Discussion = firstLine(content)
		case "contribution checklist", "checklist":
			sub.ChecklistTotal = len(checkboxRe.FindAllString(content, -1))
			sub.ChecklistChecked = len(checkedRe.FindAllString(content, -1))
		}
	}

	return sub, nil
}

// Validate enforces the form contract: a term name, a definition, all
// six checklist acknowledgments checked, and a discussion link.
func (s *Submission) Validate() error {
	var problems []string

	if strings.TrimSpace(s.TermName) == "" {
		problems = append(problems, "term name is required")
	}
	if strings.TrimSpace(s.Definition) == "" {
		problems = append(problems, "definition is required")
	}

	if s.ChecklistTotal != RequiredChecklistItems {
		problems = append(problems, fmt.Sprintf("checklist must have exactly %d items, found %d",
			RequiredChecklistItems, s.ChecklistTotal))
	}
	if s.ChecklistChecked < s.ChecklistTotal {
		problems = append(problems, fmt.Sprintf("all checklist items must be checked (%d of %d checked)",
			s.ChecklistChecked, s.ChecklistTotal))
	}

	if strings.TrimSpace(s.Discussion) == "" {
		problems = append(problems, "discussion link is required")
	} else if u, err := url.Parse(s.Discussion); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("discussion link %q is not a valid URL", s.Discussion))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid submission: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Term converts a validated submission into a draft term record.
func (s *Submission) Term(author, github string) *registry.Term {
	term := registry.NewDraft(s.TermName, author, github)
	term.Definition = s.Definition
	term.Discussion = s.Discussion
	term.Synonyms = s.Synonyms
	term.Relationships = s.Relationships
	term.PromptExamples = s.PromptExamples
	if s.Interpretation != "" || len(s.Actions) > 0 {
		term.AgentExecution = &registry.AgentExecution{
			Interpretation: s.Interpretation,
			Actions:        s.Actions,
		}
	}
	term.Clean()
	return term
}

// splitSections maps "### Heading" sections to their body text.
func splitSections(body string) map[string]string {
	locs := headingRe.FindAllStringSubmatchIndex(body, -1)
	sections := make(map[string]string, len(locs))

	for i, loc := range locs {
		heading := body[loc[2]:loc[3]]
		start := loc[1]
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(body[start:end])
		if content == noResponse {
			content = ""
		}
		sections[heading] = content
	}
	return sections
}

func normalizeHeading(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// firstLine returns the first non-empty line of a section.
func firstLine(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}

// parseList extracts items from bullet or numbered lists, falling back
// to one item per non-empty line.
func parseList(content string) []string {
	var items []string
	for _, m := range listItemRe.FindAllStringSubmatch(content, -1) {
		items = append(items, strings.TrimSpace(m[1]))
	}
	for _, m := range numberedRe.FindAllStringSubmatch(content, -1) {
		items = append(items, strings.TrimSpace(m[1]))
	}
	if len(items) > 0 {
		return items
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}
