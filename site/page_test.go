package site

import (
	"strings"
	"testing"

	"github.com/cat-mip/cat-mip/registry"
	"github.com/stretchr/testify/assert"
)

func noLink(s string) string { return s }

func TestRenderTermPage(t *testing.T) {
	term := &registry.Term{
		ID:         "CAT-MIP-000000001",
		Name:       "Agent",
		Definition: "Software acting for a user.",
		Status:     registry.StatusAccepted,
		Authors:    []registry.Author{{Name: "Ada", GitHub: "ada"}},
		Tags:       []string{"cat-mip", "core"},
		Synonyms:   []string{"Bot"},
		PromptExamples: []string{
			"Deploy an agent to the server",
		},
		AgentExecution: &registry.AgentExecution{
			Interpretation: "Install and register the software",
			Actions:        []string{"Download installer", "Run installer"},
		},
		History: []registry.HistoryEntry{
			{Date: "2025-09-01", Author: "ada", Reason: "Proposed"},
			{Date: "2025-09-19", Author: "vote", Reason: "Accepted - community vote"},
		},
	}

	page := renderTermPage(term, noLink)

	assert.True(t, strings.HasPrefix(page, "---\n"), "page starts with front matter")
	assert.Contains(t, page, "title: Agent\n")
	assert.Contains(t, page, "search_boost: 2.0\n")
	assert.Contains(t, page, "date: 2025-09-01\n")
	assert.Contains(t, page, "updated: 2025-09-19\n")
	assert.Contains(t, page, "  - name: Ada\n    github: ada\n")
	assert.Contains(t, page, "tags:\n  - cat-mip\n  - core\n")

	assert.Contains(t, page, "# Agent (CAT-MIP-000000001)\n")
	assert.Contains(t, page, `!!! success "Accepted • 2025-09-19 • by vote"`)
	assert.Contains(t, page, "## Definition\n\nSoftware acting for a user.\n")
	assert.Contains(t, page, "## Prompt Examples\n- Deploy an agent to the server\n")
	assert.Contains(t, page, "## Agent Execution\nInstall and register the software:\n")
	assert.Contains(t, page, "- Download installer\n- Run installer\n")
	assert.Contains(t, page, "## Synonyms\n- Bot\n")
	assert.Contains(t, page, "## History\n")
	assert.Contains(t, page, "| 2025-09-19 | vote | Accepted - community vote |")

	// Section order is fixed.
	defIdx := strings.Index(page, "## Definition")
	promptIdx := strings.Index(page, "## Prompt Examples")
	execIdx := strings.Index(page, "## Agent Execution")
	synIdx := strings.Index(page, "## Synonyms")
	histIdx := strings.Index(page, "## History")
	assert.True(t, defIdx < promptIdx && promptIdx < execIdx && execIdx < synIdx && synIdx < histIdx)
}

func TestRenderDraftPage(t *testing.T) {
	term := &registry.Term{
		Name:       "Runbook",
		Definition: "A documented procedure.",
		Status:     registry.StatusDraft,
		History: []registry.HistoryEntry{
			{Date: "2025-10-01", Author: "ada", Reason: "Initial term addition to build registry"},
		},
	}

	page := renderTermPage(term, noLink)

	assert.Contains(t, page, "# Runbook (DRAFT)\n", "draft terms show the DRAFT placeholder")
	assert.Contains(t, page, `!!! warning "Draft • 2025-10-01 • by ada"`)
}

func TestBannerWithoutMatchingReason(t *testing.T) {
	term := &registry.Term{
		Name:   "Agent",
		Status: registry.StatusAccepted,
		History: []registry.HistoryEntry{
			{Date: "2025-09-01", Author: "ada", Reason: "Proposed"},
		},
	}

	page := renderTermPage(term, noLink)
	assert.Contains(t, page, `!!! success "Accepted"`, "no date shown when no reason carries the status prefix")
}

func TestBannerEnDashReason(t *testing.T) {
	term := &registry.Term{
		Name:   "Agent",
		Status: registry.StatusAccepted,
		History: []registry.HistoryEntry{
			{Date: "2025-09-19", Author: "vote", Reason: "Accepted – community vote"},
		},
	}

	page := renderTermPage(term, noLink)
	assert.Contains(t, page, `!!! success "Accepted • 2025-09-19 • by vote"`)
}

func TestAgentExecutionFallbacks(t *testing.T) {
	missing := &registry.Term{Name: "Agent", Status: registry.StatusDraft}
	page := renderTermPage(missing, noLink)
	assert.Contains(t, page, "## Agent Execution\n!!! warning\n\n    No execution defined\n")

	noActions := &registry.Term{
		Name:           "Agent",
		Status:         registry.StatusDraft,
		AgentExecution: &registry.AgentExecution{},
	}
	page = renderTermPage(noActions, noLink)
	assert.Contains(t, page, "## Agent Execution\n!!! info\n\n    No actions defined\n")
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status registry.Status
		kind   string
		name   string
	}{
		{registry.StatusAccepted, "success", "Accepted"},
		{registry.StatusDraft, "warning", "Draft"},
		{registry.StatusDeprecated, "failure", "Deprecated"},
		{registry.StatusRejected, "note", "Rejected"},
	}
	for _, tt := range tests {
		kind, name := statusBadge(tt.status)
		if kind != tt.kind || name != tt.name {
			t.Errorf("statusBadge(%s) = (%s, %s), want (%s, %s)", tt.status, kind, name, tt.kind, tt.name)
		}
	}
}
