package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/cat-mip/cat-mip/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvTerm() TermExport {
	return TermExport{
		ID:            "CAT-MIP-000000001",
		CanonicalTerm: "Agent",
		PromptExamples: []string{
			"Deploy an agent",
			"Remove the agent",
		},
		AgentExecution: registry.AgentExecution{
			Actions: []string{"download", "install"},
		},
		Metadata: Metadata{
			Author:    "Ada",
			DateAdded: "2025-09-19",
			SourceURL: "https://github.com/cat-mip/cat-mip/blob/main/standards/accepted/agent.md",
		},
	}
}

func TestPromptRows(t *testing.T) {
	rows, err := PromptRows([]TermExport{csvTerm()}, "v1.0")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "CAT-MIP-000000001-p01", rows[0].PromptID)
	assert.Equal(t, "CAT-MIP-000000001-p02", rows[1].PromptID)
	assert.Equal(t, "Deploy an agent", rows[0].UserPrompt)
	assert.Equal(t, "v1.0", rows[0].StdVersion)
	assert.Equal(t, "Ada", rows[0].Author)

	// Without expected outputs, actions become action hints.
	assert.Equal(t, "action_hints", rows[0].OutputKind)
	assert.JSONEq(t, `{"action_hints":["download","install"]}`, rows[0].OutputPayload)
}

func TestPromptRowsExpectedOutputKinds(t *testing.T) {
	term := csvTerm()
	term.ExpectedOutputs = []any{
		map[string]any{"status": "ok"},
		"plain text answer",
	}

	rows, err := PromptRows([]TermExport{term}, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "json", rows[0].OutputKind)
	assert.JSONEq(t, `{"status":"ok"}`, rows[0].OutputPayload)

	assert.Equal(t, "text", rows[1].OutputKind)
	assert.Equal(t, "plain text answer", rows[1].OutputPayload)
}

func TestPromptRowsRequiresIDAndName(t *testing.T) {
	term := csvTerm()
	term.ID = ""
	_, err := PromptRows([]TermExport{term}, "v1.0")
	assert.Error(t, err)

	term = csvTerm()
	term.CanonicalTerm = " "
	_, err = PromptRows([]TermExport{term}, "v1.0")
	assert.Error(t, err)
}

func TestPromptRowsDuplicateIDFatal(t *testing.T) {
	a := csvTerm()
	b := csvTerm() // same term ID yields the same prompt IDs
	_, err := PromptRows([]TermExport{a, b}, "v1.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate prompt_id")
}

func TestPromptRowsSkipsBlankPrompts(t *testing.T) {
	term := csvTerm()
	term.PromptExamples = []string{"  ", "Ask the agent"}

	rows, err := PromptRows([]TermExport{term}, "v1.0")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CAT-MIP-000000001-p02", rows[0].PromptID, "prompt numbering follows list position")
}

func TestPromptRowsSourceURLFallback(t *testing.T) {
	term := csvTerm()
	term.Metadata.SourceURL = ""

	rows, err := PromptRows([]TermExport{term}, "v1.0")
	require.NoError(t, err)
	assert.Equal(t, "https://cat-mip.org/standard/v1-0/", rows[0].SourceURL)
}

func TestWriteCSV(t *testing.T) {
	rows, err := PromptRows([]TermExport{csvTerm()}, "v1.0")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two rows")
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, "CAT-MIP-000000001", records[1][1])
	assert.Equal(t, "Agent", records[1][2])
}

func TestWriteCSVQuotesEveryField(t *testing.T) {
	rows, err := PromptRows([]TermExport{csvTerm()}, "v1.0")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	// Every field, header included, is wrapped in double quotes.
	quotedLine := regexp.MustCompile(`^"(?:[^"]|"")*"(?:,"(?:[^"]|"")*")*$`)
	lines := strings.Split(strings.TrimRight(buf.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3, "header plus two rows")
	for _, line := range lines {
		assert.Regexp(t, quotedLine, line)
	}
	assert.True(t, strings.HasPrefix(lines[0], `"std_version","term_id","canonical_term"`))
}

func TestWriteCSVEscapesEmbeddedQuotes(t *testing.T) {
	row := PromptRow{
		StdVersion: "v1.0",
		TermID:     "CAT-MIP-000000001",
		UserPrompt: `Ask the "agent" to stop`,
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []PromptRow{row}))

	assert.Contains(t, buf.String(), `"Ask the ""agent"" to stop"`)

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, `Ask the "agent" to stop`, records[1][4])
}

func TestWriteCSVFile(t *testing.T) {
	dir := t.TempDir()
	path, count, err := WriteCSVFile([]TermExport{csvTerm()}, dir, "")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, filepath.Join(dir, "cat-mip-v1.0-prompts.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"std_version","term_id","canonical_term"`)
}
