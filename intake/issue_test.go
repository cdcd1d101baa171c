package intake

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const issueBody = `### Term Name

Remote Monitoring

### Definition

Watching managed systems from a central location.

### Synonyms

- RMM
- Remote Management

### Relationships

_No response_

### Prompt Examples

- Set up remote monitoring for the new client
- Check the monitoring dashboard

### Agent Interpretation

Configure the monitoring agent for the target systems:

### Agent Actions

1. Install the monitoring agent
2. Register the device with the dashboard

### Discussion

https://github.com/cat-mip/cat-mip/discussions/42

### Contribution Checklist

- [x] File follows the naming convention
- [x] Required fields are present
- [x] Lists use the documented format
- [x] History entries use YYYY-MM-DD
- [x] Agent execution is actionable
- [x] Discussion is linked
`

func TestParseIssue(t *testing.T) {
	sub, err := ParseIssue(issueBody)
	require.NoError(t, err)

	assert.Equal(t, "Remote Monitoring", sub.TermName)
	assert.Equal(t, "Watching managed systems from a central location.", sub.Definition)
	assert.Equal(t, []string{"RMM", "Remote Management"}, sub.Synonyms)
	assert.Empty(t, sub.Relationships, "_No response_ means the field was left empty")
	assert.Len(t, sub.PromptExamples, 2)
	assert.Equal(t, "Configure the monitoring agent for the target systems:", sub.Interpretation)
	assert.Equal(t, []string{
		"Install the monitoring agent",
		"Register the device with the dashboard",
	}, sub.Actions)
	assert.Equal(t, "https://github.com/cat-mip/cat-mip/discussions/42", sub.Discussion)
	assert.Equal(t, 6, sub.ChecklistTotal)
	assert.Equal(t, 6, sub.ChecklistChecked)
}

func TestParseIssueNoSections(t *testing.T) {
	_, err := ParseIssue("just some text without headings")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	sub, err := ParseIssue(issueBody)
	require.NoError(t, err)
	assert.NoError(t, sub.Validate())
}

func TestValidateFailures(t *testing.T) {
	base := func() *Submission {
		sub, err := ParseIssue(issueBody)
		require.NoError(t, err)
		return sub
	}

	tests := []struct {
		name    string
		mutate  func(*Submission)
		wantMsg string
	}{
		{
			name:    "missing term name",
			mutate:  func(s *Submission) { s.TermName = "" },
			wantMsg: "term name is required",
		},
		{
			name:    "missing definition",
			mutate:  func(s *Submission) { s.Definition = "  " },
			wantMsg: "definition is required",
		},
		{
			name:    "unchecked checklist",
			mutate:  func(s *Submission) { s.ChecklistChecked = 4 },
			wantMsg: "all checklist items must be checked",
		},
		{
			name:    "wrong checklist size",
			mutate:  func(s *Submission) { s.ChecklistTotal = 5; s.ChecklistChecked = 5 },
			wantMsg: "checklist must have exactly 6 items",
		},
		{
			name:    "missing discussion",
			mutate:  func(s *Submission) { s.Discussion = "" },
			wantMsg: "discussion link is required",
		},
		{
			name:    "invalid discussion URL",
			mutate:  func(s *Submission) { s.Discussion = "not a url" },
			wantMsg: "is not a valid URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := base()
			tt.mutate(sub)
			err := sub.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSubmissionTerm(t *testing.T) {
	sub, err := ParseIssue(issueBody)
	require.NoError(t, err)
	require.NoError(t, sub.Validate())

	term := sub.Term("Ada", "ada")

	assert.Equal(t, "Remote Monitoring", term.Name)
	assert.Equal(t, "Watching managed systems from a central location.", term.Definition)
	assert.Equal(t, "https://github.com/cat-mip/cat-mip/discussions/42", term.Discussion)
	assert.Equal(t, []string{"RMM", "Remote Management"}, term.Synonyms)
	require.NotNil(t, term.AgentExecution)
	assert.Equal(t, "Configure the monitoring agent for the target systems",
		term.AgentExecution.Interpretation, "trailing colon is stripped by Clean")
	assert.Len(t, term.AgentExecution.Actions, 2)
	require.Len(t, term.Authors, 1)
	assert.Equal(t, "Ada", term.Authors[0].Name)
	assert.Equal(t, "ada", term.Authors[0].GitHub)
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"bullets", "- one\n- two", []string{"one", "two"}},
		{"stars", "* one\n* two", []string{"one", "two"}},
		{"numbered", "1. one\n2) two", []string{"one", "two"}},
		{"plain lines", "one\ntwo\n", []string{"one", "two"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseList(tt.content)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitSectionsKeepsMultilineContent(t *testing.T) {
	body := "### Definition\n\nFirst line.\nSecond line.\n\n### Synonyms\n\n- A\n"
	sections := splitSections(body)
	require.Contains(t, sections, "Definition")
	assert.True(t, strings.Contains(sections["Definition"], "Second line."))
}
