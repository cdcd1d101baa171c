package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cat-mip/cat-mip/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportTerm(t *testing.T) {
	term := &registry.Term{
		ID:         "CAT-MIP-000000001",
		Name:       "Agent",
		Definition: "Software acting for a user.",
		Version:    "1.0",
		Authors:    []registry.Author{{Name: "Ada"}},
		History:    []registry.HistoryEntry{{Date: "2025-09-01"}},
		Categories: []string{"tooling"},
		Status:     registry.StatusAccepted,
		Path:       filepath.Join("standards", "accepted", "agent.yaml"),
		AgentExecution: &registry.AgentExecution{
			Actions: []string{"do a thing"},
		},
	}

	out := ExportTerm(term)

	assert.Equal(t, "CAT-MIP-000000001", out.ID)
	assert.Equal(t, "Agent", out.CanonicalTerm)
	assert.Equal(t, "accepted", out.Status)
	assert.Equal(t, "Ada", out.Metadata.Author)
	assert.Equal(t, "2025-09-01", out.Metadata.DateAdded)
	assert.Equal(t, "cat-mip.org", out.Metadata.Registry)
	assert.Equal(t, "tooling", out.Metadata.TermType)
	assert.Equal(t, "https://github.com/cat-mip/cat-mip/blob/main/standards/accepted/agent.md", out.Metadata.SourceURL)

	// Arrays are explicitly empty, never nil.
	assert.NotNil(t, out.Synonyms)
	assert.NotNil(t, out.Relationships)
	assert.NotNil(t, out.PromptExamples)
	assert.NotNil(t, out.Examples)
	assert.NotNil(t, out.AgentExecution.Actions)
}

func TestExportTermFallbacks(t *testing.T) {
	out := ExportTerm(&registry.Term{Status: registry.StatusDraft})

	assert.Equal(t, registry.UnnamedTerm, out.CanonicalTerm)
	assert.Equal(t, registry.NoDefinition, out.Definition)
	assert.Equal(t, registry.DefaultVersion, out.Metadata.Version)
	assert.Equal(t, registry.DefaultAnonymous, out.Metadata.Author)
	assert.Equal(t, registry.DefaultRegistryAt, out.Metadata.DateAdded)
}

func TestExportTermsSorted(t *testing.T) {
	terms := []*registry.Term{
		{Name: "zeta", Status: registry.StatusAccepted},
		{Name: "Alpha", Status: registry.StatusAccepted},
		{Name: "Middle", Status: registry.StatusAccepted},
	}

	out := ExportTerms(terms)
	require.Len(t, out, 3)
	assert.Equal(t, "Alpha", out[0].CanonicalTerm)
	assert.Equal(t, "Middle", out[1].CanonicalTerm)
	assert.Equal(t, "zeta", out[2].CanonicalTerm)
}

func TestWriteJSON(t *testing.T) {
	standards := t.TempDir()
	files := map[string]string{
		"accepted/agent.yaml": "id: CAT-MIP-000000001\nterm: Agent\ndefinition: d\n",
		"draft/runbook.yaml":  "id: CAT-MIP-000000002\nterm: Runbook\ndefinition: d\n",
		"rejected/nope.yaml":  "id: CAT-MIP-000000003\nterm: Nope\ndefinition: d\n",
	}
	for rel, content := range files {
		path := filepath.Join(standards, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	reg, err := registry.Load(registry.LoadOptions{StandardsPath: standards})
	require.NoError(t, err)

	buildDir := t.TempDir()
	require.NoError(t, WriteJSON(reg, buildDir))

	stable, err := LoadJSON(filepath.Join(buildDir, FileJSON))
	require.NoError(t, err)
	require.Len(t, stable, 1, "stable export holds accepted terms only")
	assert.Equal(t, "Agent", stable[0].CanonicalTerm)

	dev, err := LoadJSON(filepath.Join(buildDir, FileDevJSON))
	require.NoError(t, err)
	require.Len(t, dev, 2, "dev export adds drafts")
	assert.Equal(t, "Agent", dev[0].CanonicalTerm)
	assert.Equal(t, "Runbook", dev[1].CanonicalTerm)

	// No nulls anywhere in the output.
	raw, err := os.ReadFile(filepath.Join(buildDir, FileJSON))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "null")

	var generic []map[string]any
	require.NoError(t, json.Unmarshal(raw, &generic))
	for _, key := range []string{"id", "canonical_term", "definition", "synonyms", "agent_execution", "metadata"} {
		assert.Contains(t, generic[0], key)
	}
}
